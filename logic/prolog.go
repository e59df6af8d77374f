// Package logic wraps an embedded Prolog interpreter: programs are rendered
// from templates, consulted, queried, and answers parsed back into Go values.
package logic

import (
	"fmt"

	"github.com/ichiban/prolog"
)

type Logic struct {
	prolog *prolog.Interpreter
}

func NewProlog() *Logic {
	return &Logic{
		prolog: prolog.New(nil, nil),
	}
}

// ConsultAndCheck consults program and reports whether query has a solution.
func (p *Logic) ConsultAndCheck(program string, query string) (bool, error) {
	ok, _, err := p.ConsultAndQuery1(program, query)
	return ok, err
}

// ConsultAndQuery1 consults program and returns the bindings of the first
// solution of query, rendered as Prolog text.
func (p *Logic) ConsultAndQuery1(program string, query string) (bool, map[string]string, error) {
	if err := p.prolog.Exec(program); err != nil {
		return false, nil, fmt.Errorf("consult: %w", err)
	}
	solutions, err := p.prolog.Query(query)
	if err != nil {
		return false, nil, fmt.Errorf("query %s: %w", query, err)
	}
	defer func() {
		_ = solutions.Close()
	}()
	if !solutions.Next() {
		return false, nil, solutions.Err()
	}
	var s = make(map[string]prolog.TermString)
	if err := solutions.Scan(&s); err != nil {
		return false, nil, err
	}
	var result = make(map[string]string)
	for k, v := range s {
		result[k] = string(v)
	}
	return true, result, nil
}
