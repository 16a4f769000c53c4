package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

// Amounts must have at most maxAmountScale fractional digits and a magnitude
// below maxAmount.
const (
	maxAmountScale  = 12
	maxAmountDigits = 15
)

var maxAmount = decimal.New(1, maxAmountDigits)

// ParseTransactions validates raw model output against the response schema
// and converts it into transactions, preserving order.
//
// Only surrounding whitespace is tolerated. Anything else that deviates from
// "JSON array of objects with exactly date, description, amount, category"
// fails the whole response with KindInvalidResponseFormat.
func ParseTransactions(raw string) ([]domain.Transaction, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, invalidResponse(raw, errEmptyResponse)
	}
	if text[0] != '[' {
		return nil, invalidResponse(raw, errors.New("response is not a JSON array"))
	}

	dec := json.NewDecoder(strings.NewReader(text))
	var items []json.RawMessage
	if err := dec.Decode(&items); err != nil {
		return nil, invalidResponse(raw, fmt.Errorf("decode array: %w", err))
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, invalidResponse(raw, errors.New("unexpected data after JSON array"))
	}

	result := make([]domain.Transaction, 0, len(items))
	for i, item := range items {
		t, err := parseTransaction(item)
		if err != nil {
			return nil, invalidResponse(raw, fmt.Errorf("transaction %d: %w", i, err))
		}
		result = append(result, t)
	}

	return result, nil
}

func parseTransaction(item json.RawMessage) (domain.Transaction, error) {
	if isNull(item) {
		return domain.Transaction{}, errors.New("element is null")
	}

	obj, err := decodeObject(item)
	if err != nil {
		return domain.Transaction{}, err
	}

	dateStr, err := getStringField(obj, fieldDate)
	if err != nil {
		return domain.Transaction{}, err
	}
	date, err := civil.ParseDate(dateStr)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}

	desc, err := getStringField(obj, fieldDescription)
	if err != nil {
		return domain.Transaction{}, err
	}
	if strings.TrimSpace(desc) == "" {
		return domain.Transaction{}, fmt.Errorf("required field %q is empty", fieldDescription)
	}

	amount, err := getDecimalField(obj, fieldAmount)
	if err != nil {
		return domain.Transaction{}, err
	}

	catStr, err := getStringField(obj, fieldCategory)
	if err != nil {
		return domain.Transaction{}, err
	}
	category, err := domain.ParseCategory(catStr)
	if err != nil {
		return domain.Transaction{}, err
	}

	return domain.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Category:    category,
	}, nil
}

func getStringField(obj map[string]json.RawMessage, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("missing required field %q", key)
	}
	if isNull(v) {
		return "", fmt.Errorf("required field %q is null", key)
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", fmt.Errorf("field %q has value %s, want string", key, v)
	}
	return s, nil
}

// getDecimalField accepts JSON numbers only; a quoted number is a type error.
func getDecimalField(obj map[string]json.RawMessage, key string) (decimal.Decimal, error) {
	v, ok := obj[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("missing required field %q", key)
	}
	if isNull(v) {
		return decimal.Zero, fmt.Errorf("required field %q is null", key)
	}

	v = bytes.TrimSpace(v)
	if len(v) == 0 || v[0] == '"' {
		return decimal.Zero, fmt.Errorf("field %q has value %s, want number", key, v)
	}

	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return decimal.Zero, fmt.Errorf("field %q has value %s, want number", key, v)
	}

	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("field %q: %w", key, err)
	}

	// Exponent first: comparing against the limit rescales both operands.
	if d.Exponent() < -maxAmountScale || d.Exponent() > maxAmountDigits {
		return decimal.Zero, fmt.Errorf("field %q has value %s, out of range", key, v)
	}
	if d.Abs().Cmp(maxAmount) >= 0 {
		return decimal.Zero, fmt.Errorf("field %q has value %s, out of range", key, v)
	}
	return d, nil
}

// decodeObject reads one JSON object, rejecting duplicate and unknown keys.
func decodeObject(item json.RawMessage) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(item))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("element is not an object: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("element is not an object: %s", item)
	}

	obj := make(map[string]json.RawMessage, len(requiredFields))
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		if !isKnownField(key) {
			return nil, fmt.Errorf("unexpected field %q", key)
		}
		if _, dup := obj[key]; dup {
			return nil, fmt.Errorf("duplicate field %q", key)
		}

		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		obj[key] = v
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("element is not an object: %w", err)
	}
	return obj, nil
}

func isKnownField(key string) bool {
	for _, f := range requiredFields {
		if f == key {
			return true
		}
	}
	return false
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
