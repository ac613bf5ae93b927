package infra

import "testing"

func TestExtractMarker(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantMarker string
		wantBody   string
		wantErr    bool
	}{
		{
			name:       "valid marker",
			query:      "--sql 0b6c1a3e-4a51-4c1f-9c0e-3f7a2d9b8e11\nselect 1;\n",
			wantMarker: "0b6c1a3e-4a51-4c1f-9c0e-3f7a2d9b8e11",
			wantBody:   "select 1;",
		},
		{
			name:       "leading whitespace tolerated",
			query:      "\n  --sql 0b6c1a3e-4a51-4c1f-9c0e-3f7a2d9b8e11\nselect 1\nfrom t;",
			wantMarker: "0b6c1a3e-4a51-4c1f-9c0e-3f7a2d9b8e11",
			wantBody:   "select 1\nfrom t;",
		},
		{name: "missing marker", query: "select 1;", wantErr: true},
		{name: "upper case uuid rejected", query: "--sql 0B6C1A3E-4A51-4C1F-9C0E-3F7A2D9B8E11\nselect 1;", wantErr: true},
		{name: "empty", query: "", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			marker, body, err := extractMarker(tc.query)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("extractMarker() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("extractMarker() error: %v", err)
			}
			if marker != tc.wantMarker || body != tc.wantBody {
				t.Fatalf("extractMarker() = %q, %q; want %q, %q", marker, body, tc.wantMarker, tc.wantBody)
			}
		})
	}
}
