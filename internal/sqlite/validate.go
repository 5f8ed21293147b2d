package sqlite

import (
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// fieldKind is the value type the store accepts for a field.
type fieldKind int

const (
	kindText fieldKind = iota
	kindEmail
	kindTime
	kindInt
)

// fieldRule describes one field of a collection.
type fieldRule struct {
	name     string
	kind     fieldKind
	required bool
	min      int // lower bound for kindInt
}

// collectionRules is the schema the store enforces per collection. Keys in
// a payload that have no rule are dropped.
var collectionRules = map[string][]fieldRule{
	types.CollectionTasks: {
		{name: types.FieldTitle, kind: kindText, required: true},
		{name: types.FieldDescription, kind: kindText},
		{name: types.FieldDueDate, kind: kindTime, required: true},
		{name: types.FieldPriority, kind: kindInt, required: true, min: 1},
		{name: types.FieldAuthor, kind: kindText, required: true},
	},
	types.CollectionContacts: {
		{name: types.FieldName, kind: kindText, required: true},
		{name: types.FieldEmail, kind: kindEmail, required: true},
		{name: types.FieldAuthor, kind: kindText, required: true},
	},
}

// validateFields checks fields against the collection's rules and returns
// the normalized document to store: timestamps become RFC 3339 UTC strings
// and integers become int. Errors wrap types.ErrValidation.
func validateFields(collection string, fields map[string]any) (map[string]any, error) {
	rules, ok := collectionRules[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrCollectionNotFound, collection)
	}

	out := make(map[string]any, len(rules))
	for _, rule := range rules {
		raw, present := fields[rule.name]
		if !present || raw == nil || raw == "" {
			if rule.required {
				return nil, fmt.Errorf("%w: %s is required", types.ErrValidation, rule.name)
			}
			if present {
				out[rule.name] = ""
			}
			continue
		}

		v, err := normalizeValue(rule, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", types.ErrValidation, rule.name, err)
		}
		out[rule.name] = v
	}
	return out, nil
}

// normalizeValue converts raw to the stored representation of rule.kind.
func normalizeValue(rule fieldRule, raw any) (any, error) {
	switch rule.kind {
	case kindText:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected text, got %T", raw)
		}
		if rule.required && strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("must not be blank")
		}
		return s, nil

	case kindEmail:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected text, got %T", raw)
		}
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Name != "" || addr.Address != s {
			return nil, fmt.Errorf("invalid email address %q", s)
		}
		return s, nil

	case kindTime:
		switch v := raw.(type) {
		case time.Time:
			return v.UTC().Format(time.RFC3339), nil
		case string:
			t, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return nil, fmt.Errorf("invalid timestamp %q", v)
			}
			return t.UTC().Format(time.RFC3339), nil
		default:
			return nil, fmt.Errorf("expected timestamp, got %T", raw)
		}

	case kindInt:
		n, err := toInt(raw)
		if err != nil {
			return nil, err
		}
		if n < rule.min {
			return nil, fmt.Errorf("must be at least %d", rule.min)
		}
		return n, nil

	default:
		return nil, fmt.Errorf("unknown field kind %d", rule.kind)
	}
}

// toInt accepts the integer representations a payload may carry.
func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected integer, got %v", v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %s", v)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", raw)
	}
}
