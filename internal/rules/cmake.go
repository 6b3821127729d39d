package rules

import "strings"

var cmakeQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// cmakeCall renders one CMake function invocation with keyword arguments, one
// keyword per line and each value quoted on its own line below it.
type cmakeCall struct {
	function string
	lines    []string
}

func newCMakeCall(function string) *cmakeCall {
	return &cmakeCall{function: function}
}

// arg appends a keyword followed by its values. Keywords without values are
// dropped so optional lists can be passed unconditionally.
func (c *cmakeCall) arg(keyword string, values ...string) *cmakeCall {
	if len(values) == 0 {
		return c
	}
	c.lines = append(c.lines, "  "+keyword)
	for _, v := range values {
		c.lines = append(c.lines, `    "`+cmakeQuoter.Replace(v)+`"`)
	}
	return c
}

// option appends a bare keyword.
func (c *cmakeCall) option(keyword string) *cmakeCall {
	c.lines = append(c.lines, "  "+keyword)
	return c
}

func (c *cmakeCall) String() string {
	var b strings.Builder
	b.WriteString(c.function)
	b.WriteString("(\n")
	for _, line := range c.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(")\n")
	return b.String()
}
