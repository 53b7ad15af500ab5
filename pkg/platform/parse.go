// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"fmt"
	"strings"
)

// ParsePredicate parses a platform condition string as written in a
// manifest: either `cfg(<expression>)` or a bare target triple.
func ParsePredicate(s string) (Predicate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty platform condition")
	}

	if inner, ok := strings.CutPrefix(s, "cfg("); ok {
		inner, ok := strings.CutSuffix(inner, ")")
		if !ok {
			return nil, fmt.Errorf("unterminated cfg() in %q", s)
		}
		p := &parser{input: inner}
		pred, err := p.parsePredicate()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %q: %w", s, err)
		}
		p.skipSpace()
		if !p.eof() {
			return nil, fmt.Errorf("failed to parse %q: trailing input at offset %d", s, p.pos)
		}
		return pred, nil
	}

	if !validTriple(s) {
		return nil, fmt.Errorf("invalid target triple %q", s)
	}
	return Triple(s), nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) parsePredicate() (Predicate, error) {
	ident, err := p.ident()
	if err != nil {
		return nil, err
	}

	switch ident {
	case "any", "all":
		preds, err := p.predicateList()
		if err != nil {
			return nil, err
		}
		if ident == "any" {
			return Any(preds), nil
		}
		return All(preds), nil
	case "not":
		preds, err := p.predicateList()
		if err != nil {
			return nil, err
		}
		if len(preds) != 1 {
			return nil, fmt.Errorf("not() takes exactly one predicate, got %d", len(preds))
		}
		return Not{Pred: preds[0]}, nil
	}

	p.skipSpace()
	if p.peek() == '=' {
		p.pos++
		value, err := p.stringLit()
		if err != nil {
			return nil, err
		}
		return KeyEqual{Key: ident, Value: value}, nil
	}
	return Atom(ident), nil
}

func (p *parser) predicateList() ([]Predicate, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}

	var preds []Predicate
	for {
		p.skipSpace()
		if p.peek() == ')' {
			p.pos++
			return preds, nil
		}
		pred, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
		default:
			return nil, fmt.Errorf("expected ',' or ')' at offset %d", p.pos)
		}
	}
}

func (p *parser) ident() (string, error) {
	p.skipSpace()
	start := p.pos
	for !p.eof() && identChar(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("expected identifier at offset %d", start)
	}
	return p.input[start:p.pos], nil
}

func (p *parser) stringLit() (string, error) {
	p.skipSpace()
	if err := p.expect('"'); err != nil {
		return "", err
	}
	start := p.pos
	for !p.eof() && p.input[p.pos] != '"' {
		p.pos++
	}
	if p.eof() {
		return "", fmt.Errorf("unterminated string at offset %d", start)
	}
	s := p.input[start:p.pos]
	p.pos++
	return s, nil
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return fmt.Errorf("expected %q at offset %d", string(c), p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) skipSpace() {
	for !p.eof() && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func identChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func validTriple(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(identChar(c) || c == '-' || c == '.') {
			return false
		}
	}
	return strings.Contains(s, "-")
}
