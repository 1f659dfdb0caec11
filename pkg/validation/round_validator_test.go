package validation

import (
	"testing"

	"go-reveal-quiz/pkg/models"
)

func TestValidateCreateRound(t *testing.T) {
	v := NewRoundValidator()

	testCases := []struct {
		name    string
		req     models.CreateRoundRequest
		wantErr bool
	}{
		{
			name:    "EmptyRequestDefaultsToDataset",
			req:     models.CreateRoundRequest{},
			wantErr: false,
		},
		{
			name:    "DatasetWithName",
			req:     models.CreateRoundRequest{Source: "dataset", Name: "cat_01.png"},
			wantErr: false,
		},
		{
			name:    "DatasetRejectsURL",
			req:     models.CreateRoundRequest{Source: "dataset", URL: "https://example.com/a.png"},
			wantErr: true,
		},
		{
			name:    "URLSource",
			req:     models.CreateRoundRequest{Source: "url", URL: "https://example.com/cat.png"},
			wantErr: false,
		},
		{
			name:    "URLSourceMissingURL",
			req:     models.CreateRoundRequest{Source: "url"},
			wantErr: true,
		},
		{
			name:    "URLSourceBadScheme",
			req:     models.CreateRoundRequest{Source: "url", URL: "ftp://example.com/cat.png"},
			wantErr: true,
		},
		{
			name:    "AzureSource",
			req:     models.CreateRoundRequest{Source: "azure", URL: "https://acct.blob.core.windows.net/images?blob=cat.png"},
			wantErr: false,
		},
		{
			name:    "UnknownSource",
			req:     models.CreateRoundRequest{Source: "ftp"},
			wantErr: true,
		},
		{
			name:    "NegativeTimeLimit",
			req:     models.CreateRoundRequest{TimeLimit: -1},
			wantErr: true,
		},
		{
			name:    "ExcessiveTimeLimit",
			req:     models.CreateRoundRequest{TimeLimit: 3601},
			wantErr: true,
		},
		{
			name:    "MaxTimeLimit",
			req:     models.CreateRoundRequest{TimeLimit: 3600},
			wantErr: false,
		},
		{
			name:    "ZeroTimeLimitMeansAuto",
			req:     models.CreateRoundRequest{TimeLimit: 0},
			wantErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateCreateRound(tc.req)
			if tc.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
