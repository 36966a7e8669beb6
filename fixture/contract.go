// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package fixture

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fantom-foundation/Figaro/figaro"
	"github.com/Fantom-foundation/Figaro/oracle"
)

// This file parses the contract definition section of a fixture into the
// oracle's contract model. The accepted grammar is the small subset the
// golden cases need: scalar and dynamic-array state variables, functions
// whose bodies are sequences of assignments to state variables, and a bare
// fallback. Everything the oracle does not price is rejected rather than
// silently mispriced.

// parseContract parses contract source into the oracle's contract model.
func parseContract(src string) (*oracle.Contract, error) {
	chunks := scanChunks(src)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("missing contract definition")
	}

	head := chunks[0]
	name, found := strings.CutPrefix(head.text, "contract ")
	if head.delim != '{' || !found {
		return nil, fmt.Errorf("expected `contract <name> {`, got %q", head.text)
	}
	contract := &oracle.Contract{Name: strings.TrimSpace(name)}

	pos := 1
	for pos < len(chunks) {
		chunk := chunks[pos]
		switch {
		case chunk.delim == '}' && chunk.text == "":
			return contract, checkTrailing(chunks[pos+1:])
		case chunk.delim == ';':
			if err := parseStateVar(contract, chunk.text); err != nil {
				return nil, err
			}
			pos++
		case chunk.delim == '{':
			end, err := parseMember(contract, chunks, pos)
			if err != nil {
				return nil, err
			}
			pos = end
		default:
			return nil, fmt.Errorf("unsupported construct %q", chunk.text)
		}
	}
	return nil, fmt.Errorf("unexpected end of contract %s", contract.Name)
}

func checkTrailing(chunks []chunk) error {
	for _, chunk := range chunks {
		if chunk.text != "" || chunk.delim != 0 {
			return fmt.Errorf("unexpected input after contract: %q", chunk.text)
		}
	}
	return nil
}

// parseStateVar parses declarations like `uint public a` or `uint8[] b`.
func parseStateVar(contract *oracle.Contract, text string) error {
	fields := strings.Fields(text)
	if len(fields) < 2 || len(fields) > 3 {
		return fmt.Errorf("unsupported state variable declaration %q", text)
	}
	decl := oracle.StateVar{
		Name: fields[len(fields)-1],
		Kind: oracle.Scalar,
	}
	typeName := fields[0]
	if elem, found := strings.CutSuffix(typeName, "[]"); found {
		decl.Kind = oracle.DynamicArray
		typeName = elem
	}
	decl.Type = canonicalType(typeName)
	if len(fields) == 3 {
		switch fields[1] {
		case "public":
			decl.Public = true
		case "internal", "private":
			// not dispatched, no getter
		default:
			return fmt.Errorf("unsupported visibility %q in %q", fields[1], text)
		}
	}
	if _, exists := contract.Var(decl.Name); exists {
		return fmt.Errorf("state variable %s declared twice", decl.Name)
	}
	contract.Vars = append(contract.Vars, decl)
	return nil
}

// parseMember parses a function or fallback member starting at chunks[pos]
// (the header chunk, delimited by '{') and returns the position following the
// member's closing brace.
func parseMember(contract *oracle.Contract, chunks []chunk, pos int) (int, error) {
	header := chunks[pos].text
	var handler figaro.Handler
	var params map[string]string
	switch {
	case strings.HasPrefix(header, "function "):
		var err error
		handler, params, err = parseFunctionHeader(header)
		if err != nil {
			return 0, err
		}
	case strings.HasPrefix(header, "fallback"):
		var err error
		handler, err = parseFallbackHeader(header)
		if err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unsupported contract member %q", header)
	}

	pos++
	for pos < len(chunks) {
		chunk := chunks[pos]
		switch chunk.delim {
		case '}':
			if chunk.text != "" {
				return 0, fmt.Errorf("statement %q is not terminated", chunk.text)
			}
			if handler.IsFallback() {
				if len(handler.Ops) > 0 {
					return 0, fmt.Errorf("fallback bodies with statements are not supported")
				}
				if contract.Fallback != nil {
					return 0, fmt.Errorf("fallback declared twice")
				}
				contract.Fallback = &handler
			} else {
				contract.Functions = append(contract.Functions, handler)
			}
			return pos + 1, nil
		case ';':
			ops, err := parseStatement(contract, params, chunk.text)
			if err != nil {
				return 0, fmt.Errorf("in %s: %w", memberName(handler), err)
			}
			handler.Ops = append(handler.Ops, ops...)
			pos++
		default:
			return 0, fmt.Errorf("nested blocks are not supported in %s", memberName(handler))
		}
	}
	return 0, fmt.Errorf("unexpected end of %s", memberName(handler))
}

func memberName(handler figaro.Handler) string {
	if handler.IsFallback() {
		return "fallback"
	}
	return "function " + handler.Name
}

// parseFunctionHeader parses headers like
// `function f1(uint256 x) public payable returns (uint256)`.
// It returns the handler scaffold and the parameter name-to-type map needed
// to tag index operands.
func parseFunctionHeader(header string) (figaro.Handler, map[string]string, error) {
	var none figaro.Handler
	rest := strings.TrimPrefix(header, "function ")
	name, rest, found := strings.Cut(rest, "(")
	if !found {
		return none, nil, fmt.Errorf("missing parameter list in %q", header)
	}
	paramList, rest, found := strings.Cut(rest, ")")
	if !found {
		return none, nil, fmt.Errorf("unterminated parameter list in %q", header)
	}

	handler := figaro.Handler{Name: strings.TrimSpace(name)}
	params := map[string]string{}
	for _, param := range splitList(paramList) {
		fields := strings.Fields(param)
		if len(fields) != 2 {
			return none, nil, fmt.Errorf("unsupported parameter %q in %q", param, header)
		}
		typeName := canonicalType(fields[0])
		handler.Params = append(handler.Params, typeName)
		params[fields[1]] = typeName
	}

	for rest != "" {
		rest = strings.TrimSpace(rest)
		switch {
		case rest == "public", rest == "external":
			rest = ""
		case strings.HasPrefix(rest, "public "), strings.HasPrefix(rest, "external "):
			_, rest, _ = strings.Cut(rest, " ")
		case rest == "payable" || strings.HasPrefix(rest, "payable "):
			handler.Payable = true
			_, rest, _ = strings.Cut(rest, " ")
		case strings.HasPrefix(rest, "returns"):
			returnList, tail, found := strings.Cut(rest, ")")
			if !found {
				return none, nil, fmt.Errorf("unterminated returns list in %q", header)
			}
			_, returnList, _ = strings.Cut(returnList, "(")
			handler.ReturnWords = len(splitList(returnList))
			rest = tail
		default:
			return none, nil, fmt.Errorf("unsupported function modifier %q in %q", rest, header)
		}
	}
	return handler, params, nil
}

// parseFallbackHeader parses `fallback() external payable`.
func parseFallbackHeader(header string) (figaro.Handler, error) {
	rest := strings.TrimPrefix(header, "fallback")
	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), "()"))
	handler := figaro.Handler{}
	for _, modifier := range strings.Fields(rest) {
		switch modifier {
		case "external":
		case "payable":
			handler.Payable = true
		default:
			return handler, fmt.Errorf("unsupported fallback modifier %q", modifier)
		}
	}
	return handler, nil
}

// parseStatement parses an assignment statement into the storage operations
// it performs: the reads of its right-hand side, then the write of its target.
func parseStatement(contract *oracle.Contract, params map[string]string, text string) ([]figaro.StorageOp, error) {
	if strings.Contains(text, "==") || strings.Count(text, "=") != 1 {
		return nil, fmt.Errorf("unsupported statement %q", text)
	}
	lhs, rhs, _ := strings.Cut(text, "=")
	lhs, rhs = strings.TrimSpace(lhs), strings.TrimSpace(rhs)

	ops, err := scanReads(contract, params, rhs)
	if err != nil {
		return nil, err
	}

	writeOp, err := parseWriteTarget(contract, params, lhs)
	if err != nil {
		return nil, err
	}
	return append(ops, writeOp), nil
}

func parseWriteTarget(contract *oracle.Contract, params map[string]string, lhs string) (figaro.StorageOp, error) {
	var none figaro.StorageOp
	name, indexExpr, isIndexed, err := splitIndexed(lhs)
	if err != nil {
		return none, err
	}
	decl, found := contract.Var(name)
	if !found {
		return none, fmt.Errorf("assignment to %q, which is not a state variable", name)
	}
	slot, _ := contract.SlotOf(name)
	if !isIndexed {
		if decl.Kind != oracle.Scalar {
			return none, fmt.Errorf("assignment to array %s requires an index", name)
		}
		return figaro.WriteOp(slot), nil
	}
	if decl.Kind != oracle.DynamicArray {
		return none, fmt.Errorf("cannot index scalar %s", name)
	}
	index, err := parseIndexOperand(params, indexExpr)
	if err != nil {
		return none, err
	}
	return figaro.ArrayWriteOp(slot, index), nil
}

// scanReads collects the storage reads an expression performs: every
// reference to a state variable, indexed or plain.
func scanReads(contract *oracle.Contract, params map[string]string, expr string) ([]figaro.StorageOp, error) {
	var ops []figaro.StorageOp
	for pos := 0; pos < len(expr); {
		if !isIdentByte(expr[pos], false) {
			pos++
			continue
		}
		end := pos
		for end < len(expr) && isIdentByte(expr[end], end > pos) {
			end++
		}
		name := expr[pos:end]
		pos = end
		decl, found := contract.Var(name)
		if !found {
			continue
		}
		slot, _ := contract.SlotOf(name)
		if decl.Kind == oracle.Scalar {
			ops = append(ops, figaro.ReadOp(slot))
			continue
		}
		indexExpr, next, err := bracketContent(expr, pos)
		if err != nil {
			return nil, fmt.Errorf("array %s read without an index in %q", name, expr)
		}
		index, err := parseIndexOperand(params, indexExpr)
		if err != nil {
			return nil, err
		}
		ops = append(ops, figaro.ArrayReadOp(slot, index))
		pos = next
	}
	return ops, nil
}

// parseIndexOperand classifies an array index expression into a
// provenance-tagged operand. Literals produce literal operands; parameter
// references and raw call data produce input-derived operands, with the value
// range of the narrowing cast retained for diagnostics.
func parseIndexOperand(params map[string]string, expr string) (figaro.Operand, error) {
	expr = strings.TrimSpace(expr)

	if value, err := strconv.ParseUint(expr, 10, 64); err == nil {
		return figaro.LiteralIndex(value), nil
	}

	castType := ""
	if inner, found := castContent(expr); found {
		castType, _, _ = strings.Cut(expr, "(")
		expr = strings.TrimSpace(inner)
	}

	if strings.HasPrefix(expr, "msg.data[") {
		return figaro.InputIndex(rangeOfType(castType)), nil
	}
	if paramType, found := params[expr]; found {
		if castType == "" {
			castType = paramType
		}
		return figaro.InputIndex(rangeOfType(castType)), nil
	}
	return figaro.Operand{}, fmt.Errorf("unsupported array index expression %q", expr)
}

// castContent unwraps a cast expression `uintN(inner)` and returns the inner
// expression.
func castContent(expr string) (string, bool) {
	typeName, rest, found := strings.Cut(expr, "(")
	if !found || !strings.HasSuffix(rest, ")") || !strings.HasPrefix(typeName, "uint") {
		return "", false
	}
	return rest[:len(rest)-1], true
}

// rangeOfType returns the value range of narrow unsigned integer types, and
// nil for types too wide to enumerate.
func rangeOfType(typeName string) *figaro.IndexRange {
	switch typeName {
	case "uint8":
		return &figaro.IndexRange{Max: 1<<8 - 1}
	case "uint16":
		return &figaro.IndexRange{Max: 1<<16 - 1}
	case "uint32":
		return &figaro.IndexRange{Max: 1<<32 - 1}
	}
	return nil
}

// splitIndexed splits `name[index]` into its parts; plain names pass through.
func splitIndexed(expr string) (name, index string, isIndexed bool, err error) {
	pos := strings.IndexByte(expr, '[')
	if pos < 0 {
		return expr, "", false, nil
	}
	name = strings.TrimSpace(expr[:pos])
	index, next, err := bracketContent(expr, pos)
	if err != nil {
		return "", "", false, err
	}
	if strings.TrimSpace(expr[next:]) != "" {
		return "", "", false, fmt.Errorf("unsupported assignment target %q", expr)
	}
	return name, index, true, nil
}

// bracketContent extracts the content of the bracket pair starting at
// expr[start], honoring nested brackets, and returns the position after the
// closing bracket.
func bracketContent(expr string, start int) (string, int, error) {
	if start >= len(expr) || expr[start] != '[' {
		return "", 0, fmt.Errorf("expected an index in %q", expr)
	}
	depth := 0
	for pos := start; pos < len(expr); pos++ {
		switch expr[pos] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return expr[start+1 : pos], pos + 1, nil
			}
		}
	}
	return "", 0, fmt.Errorf("unterminated index in %q", expr)
}

func isIdentByte(b byte, tail bool) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', b == '_':
		return true
	case '0' <= b && b <= '9':
		return tail
	}
	return false
}

// canonicalType normalizes type aliases to the names used in canonical
// signatures.
func canonicalType(typeName string) string {
	if typeName == "uint" {
		return "uint256"
	}
	return typeName
}

func splitList(list string) []string {
	var res []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}

// chunk is one construct of the contract source: the text preceding a
// structural delimiter, with comments stripped and whitespace collapsed.
type chunk struct {
	text  string
	delim byte // ';', '{', '}', or 0 at end of input
}

// scanChunks splits contract source at its structural delimiters.
func scanChunks(src string) []chunk {
	var sb strings.Builder
	for _, line := range strings.Split(src, "\n") {
		code, _, _ := strings.Cut(line, "//")
		sb.WriteString(code)
		sb.WriteByte(' ')
	}
	code := sb.String()

	var res []chunk
	start := 0
	for pos := 0; pos < len(code); pos++ {
		switch code[pos] {
		case ';', '{', '}':
			res = append(res, chunk{
				text:  strings.Join(strings.Fields(code[start:pos]), " "),
				delim: code[pos],
			})
			start = pos + 1
		}
	}
	if tail := strings.Join(strings.Fields(code[start:]), " "); tail != "" {
		res = append(res, chunk{text: tail})
	}
	return res
}
