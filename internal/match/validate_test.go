package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_Validate(t *testing.T) {
	tests := []struct {
		name    string
		result  Result
		wantErr string
	}{
		{name: "valid", result: Result{PlayerID: "42", Mode: "Solo", Kills: 2}},
		{name: "handle only", result: Result{Handle: "Ace", Mode: "Solo"}},
		{name: "no user", result: Result{Mode: "Solo"}, wantErr: "a user is required"},
		{name: "no mode", result: Result{PlayerID: "42"}, wantErr: "mode is required"},
		{name: "negative kills", result: Result{PlayerID: "42", Mode: "Duo", Kills: -1}, wantErr: "kills must not be negative"},
		{name: "negative placement", result: Result{PlayerID: "42", Mode: "Duo", Placement: -3}, wantErr: "placement must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidResult)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalizeMode(t *testing.T) {
	mode, ok := NormalizeMode("sQuAd")
	assert.True(t, ok)
	assert.Equal(t, "Squad", mode)

	_, ok = NormalizeMode("Quintet")
	assert.False(t, ok)
}
