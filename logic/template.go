package logic

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"
)

func TemplateToString(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Num renders an integer as a Prolog arithmetic term. Negative values are
// written as a subtraction so they never depend on how the reader binds a
// leading minus.
func Num(n int) string {
	if n < 0 {
		return "(0-" + strconv.Itoa(-n) + ")"
	}
	return strconv.Itoa(n)
}

func joinInt(s []int, prefix, sep string) string {
	parts := make([]string, len(s))
	for i, n := range s {
		parts[i] = prefix + Num(n)
	}
	return strings.Join(parts, sep)
}

func joinStr(s []string, prefix, sep string) string {
	parts := make([]string, len(s))
	for i, s := range s {
		parts[i] = prefix + s
	}
	return strings.Join(parts, sep)
}

func NewTemplate(name, content string) *template.Template {
	tmpl, err := template.New(name).Funcs(
		template.FuncMap{"joinInt": joinInt, "joinStr": joinStr, "num": Num}).Parse(content)
	if err != nil {
		panic(err)
	}
	return tmpl
}
