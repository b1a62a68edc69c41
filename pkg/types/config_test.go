package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "valid sqlite config",
			config:  Config{Driver: DriverSQLite, Database: "rowgate.db"},
			wantErr: nil,
		},
		{
			name:    "empty driver",
			config:  Config{Database: "rowgate.db"},
			wantErr: ErrDriverEmpty,
		},
		{
			name:    "unknown driver",
			config:  Config{Driver: "oracle", Database: "rowgate.db"},
			wantErr: ErrDriverUnknown,
		},
		{
			name:    "empty database",
			config:  Config{Driver: DriverSQLite},
			wantErr: ErrDatabaseEmpty,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
