package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Platform
		wantErr bool
	}{
		{name: "shipway", input: "shipway", want: Shipway},
		{name: "uppercase", input: "UNICOMMERCE", want: Unicommerce},
		{name: "padded", input: " convertway ", want: Convertway},
		{name: "unknown", input: "unknown", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentifiers(t *testing.T) {
	assert.Equal(t, "data_shipway", Shipway.DataTable())
	assert.Equal(t, "loyalty_score_unicommerce", Unicommerce.LoyaltyColumn())
	assert.Equal(t, "churn_rate_convertway", Convertway.ChurnColumn())
	assert.Equal(t, "sync_till_shipway", Shipway.SyncColumn())
	assert.Equal(t, "is_convertway", Convertway.EnabledColumn())
	assert.Equal(t, "multiplier_unicommerce", Unicommerce.MultiplierColumn())
	assert.Equal(t, "register_shipway", Shipway.RegisterColumn())
}

func TestAllIsClosed(t *testing.T) {
	all := All()
	assert.Len(t, all, 3)
	for _, p := range all {
		parsed, err := Parse(p.String())
		assert.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}
