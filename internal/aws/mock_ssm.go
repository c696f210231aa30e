// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// MockSSMClient implements SSMAPI for testing
type MockSSMClient struct {
	GetParamsByPathFunc func(context.Context, *ssm.GetParametersByPathInput, ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

func (m *MockSSMClient) GetParametersByPath(ctx context.Context, input *ssm.GetParametersByPathInput, opts ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	if m.GetParamsByPathFunc != nil {
		return m.GetParamsByPathFunc(ctx, input, opts...)
	}
	return nil, fmt.Errorf("GetParametersByPath not implemented")
}

// PagedParameters returns a GetParamsByPathFunc serving pages in order.
// Page i carries the next token "page-<i+1>" unless it is the last one.
// The returned counter reports how many calls were made.
func PagedParameters(pages ...[]Parameter) (func(context.Context, *ssm.GetParametersByPathInput, ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error), *int) {
	calls := 0
	fn := func(ctx context.Context, input *ssm.GetParametersByPathInput, opts ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
		idx := calls
		calls++

		want := ""
		if idx > 0 {
			want = fmt.Sprintf("page-%d", idx)
		}
		got := ""
		if input.NextToken != nil {
			got = *input.NextToken
		}
		if got != want || idx >= len(pages) {
			return nil, fmt.Errorf("unexpected next token %q on call %d", got, idx+1)
		}

		output := &ssm.GetParametersByPathOutput{}
		for _, p := range pages[idx] {
			output.Parameters = append(output.Parameters, toSSMParameter(p))
		}
		if idx+1 < len(pages) {
			next := fmt.Sprintf("page-%d", idx+1)
			output.NextToken = &next
		}
		return output, nil
	}
	return fn, &calls
}

func toSSMParameter(p Parameter) ssmtypes.Parameter {
	name, value := p.Name, p.Value
	return ssmtypes.Parameter{
		Name:  &name,
		Value: &value,
		Type:  ssmtypes.ParameterTypeString,
	}
}
