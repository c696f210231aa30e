// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

package aws

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

func TestMockSSMClientWithoutFunctions(t *testing.T) {
	mock := &MockSSMClient{}
	_, err := mock.GetParametersByPath(context.Background(), nil)
	if err == nil || err.Error() != "GetParametersByPath not implemented" {
		t.Errorf("Expected 'GetParametersByPath not implemented' error, got %v", err)
	}
}

func TestPagedParametersRejectsWrongToken(t *testing.T) {
	fn, calls := PagedParameters([]Parameter{{Name: "/a/b", Value: "c"}}, []Parameter{})
	wrong := "bogus"

	if _, err := fn(context.Background(), &ssm.GetParametersByPathInput{NextToken: &wrong}); err == nil {
		t.Error("PagedParameters() accepted a first call with a token")
	}
	if *calls != 1 {
		t.Errorf("PagedParameters() counted %d calls, want 1", *calls)
	}
}
