// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/emojifix/pkg/text"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

type hclRuleFile struct {
	Target     string    `hcl:"target,optional"`
	Shortcodes bool      `hcl:"shortcodes,optional"`
	Rules      []hclRule `hcl:"rule,block"`
}

type hclRule struct {
	Pattern     string `hcl:"pattern"`
	Replacement string `hcl:"replacement"`
	Literal     bool   `hcl:"literal,optional"`
	File        string `hcl:"file,optional"`
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the rule file from HCL
func (p *HCLParser) Parse(ctx context.Context, filename string, data []byte) (*RuleFile, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"marker": cty.StringVal("\uFFFD"),
			"vs16":   cty.StringVal("\uFE0F"),
		},
		Functions: map[string]function.Function{
			"emoji": emojiFunc,
		},
	}

	var raw hclRuleFile
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	rf := &RuleFile{Target: raw.Target, Shortcodes: raw.Shortcodes}
	for _, r := range raw.Rules {
		rf.Rules = append(rf.Rules, text.ReplacementRule{
			Pattern:        r.Pattern,
			Replacement:    r.Replacement,
			Literal:        r.Literal,
			FileFilterGlob: r.File,
		})
	}
	return rf, nil
}

// emojiFunc resolves a shortcode at parse time, so one replacement can use an
// emoji without turning on expansion for the whole file
var emojiFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "shortcode", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		code := args[0].AsString()
		e, ok := text.LookupShortcode(code)
		if !ok {
			return cty.NilVal, errors.Errorf("unknown emoji shortcode %q", code)
		}
		return cty.StringVal(e), nil
	},
})
