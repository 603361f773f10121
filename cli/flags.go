// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// AddFlags adds a flag to the given flag set for every field of the given
// config struct (a pointer) that has a `flag:` tag. The tag value is the
// long flag name, optionally followed by a comma and a one-letter shorthand
// (for example `flag:"db,d"`). The `desc:` tag is used as the usage string.
func AddFlags(fs *pflag.FlagSet, cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("cli.AddFlags: expected a pointer to a struct, not %T", cfg)
	}
	return addFlags(fs, v.Elem())
}

func addFlags(fs *pflag.FlagSet, v reflect.Value) error {
	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := v.Field(i)
		tag, ok := f.Tag.Lookup("flag")
		if !ok {
			if f.Type.Kind() == reflect.Struct {
				if err := addFlags(fs, fv); err != nil {
					return err
				}
			}
			continue
		}
		name, short, _ := strings.Cut(tag, ",")
		usage := f.Tag.Get("desc")
		ptr := fv.Addr().Interface()
		switch p := ptr.(type) {
		case *string:
			fs.StringVarP(p, name, short, *p, usage)
		case *bool:
			fs.BoolVarP(p, name, short, *p, usage)
		case *int:
			fs.IntVarP(p, name, short, *p, usage)
		case *float32:
			fs.Float32VarP(p, name, short, *p, usage)
		case *float64:
			fs.Float64VarP(p, name, short, *p, usage)
		case *time.Duration:
			fs.DurationVarP(p, name, short, *p, usage)
		default:
			return fmt.Errorf("cli.AddFlags: field %s has unsupported type %s", f.Name, f.Type)
		}
	}
	return nil
}

// SetFlags sets the fields of the given config struct (a pointer) from
// flag values, as recorded by [Run]. Names with no matching field are
// ignored.
func SetFlags(cfg any, flags map[string]string) error {
	if len(flags) == 0 {
		return nil
	}
	fs := pflag.NewFlagSet("", pflag.ContinueOnError)
	if err := AddFlags(fs, cfg); err != nil {
		return err
	}
	for name, val := range flags {
		if fs.Lookup(name) == nil {
			continue
		}
		if err := fs.Set(name, val); err != nil {
			return fmt.Errorf("cli.SetFlags: %w", err)
		}
	}
	return nil
}
