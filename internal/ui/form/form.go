package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/haulops/haulctl/internal/api"
)

// Fill prompts for every editable field of res, starting from current
// (nil for a new record), and returns an edited copy. Required fields are
// re-asked until they are non-blank, so the result always passes
// api.ValidateRequired.
func Fill(ctx context.Context, d PromptDriver, res api.Resource, current api.Record) (api.Record, error) {
	var out api.Record
	if current != nil {
		out = current.Clone()
	} else {
		out = api.Record{}
	}

	for _, f := range res.Fields {
		existing := out.Text(f.Name)

		if len(f.Options) > 0 {
			// A current value outside the fixed choices stays selectable
			// and is the default, so an untouched form keeps it.
			options := f.Options
			def := indexOf(options, existing)
			if def < 0 {
				def = 0
				if existing != "" {
					options = append([]string{existing}, f.Options...)
				}
			}
			idx, err := d.Select(ctx, SelectConfig{Message: f.Label, Options: options, DefaultIndex: def})
			if err != nil {
				return nil, err
			}
			if idx < 0 || idx >= len(options) {
				return nil, fmt.Errorf("%s: invalid choice", f.Label)
			}
			if options[idx] != existing {
				out.Set(f.Name, options[idx])
			}
			continue
		}

		cfg := InputConfig{Message: f.Label, Default: existing}
		if f.Required {
			cfg.Message += " *"
			cfg.Validator = required(f.Label)
		}
		val, err := d.Input(ctx, cfg)
		if err != nil {
			return nil, err
		}
		val = strings.TrimSpace(val)
		if f.Required && val == "" {
			return nil, cfg.Validator(val)
		}
		if val == existing {
			continue
		}
		out.Set(f.Name, val)
	}

	if err := api.ValidateRequired(res, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Confirm asks a yes/no question; an abort counts as no.
func Confirm(ctx context.Context, d PromptDriver, message string) (bool, error) {
	ok, err := d.Confirm(ctx, ConfirmConfig{Message: message})
	if errors.Is(err, ErrAborted) {
		return false, nil
	}
	return ok, err
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}
