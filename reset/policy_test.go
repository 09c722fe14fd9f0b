package reset

import "testing"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		want      []string
	}{
		{
			name:      "too short only",
			candidate: "Pass123",
			want:      []string{ViolationTooShort},
		},
		{
			name:      "missing uppercase",
			candidate: "password123",
			want:      []string{ViolationUppercase},
		},
		{
			name:      "missing digit",
			candidate: "PASSWORDONLY",
			want:      []string{ViolationDigit},
		},
		{
			name:      "valid",
			candidate: "SecureP@ss1",
			want:      nil,
		},
		{
			name:      "everything wrong",
			candidate: "abc",
			want:      []string{ViolationTooShort, ViolationUppercase, ViolationDigit},
		},
		{
			name:      "empty",
			candidate: "",
			want:      []string{ViolationTooShort, ViolationUppercase, ViolationDigit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := ValidatePassword(tt.candidate)

			if tt.want == nil {
				if perr != nil {
					t.Fatalf("expected valid, got %v", perr.Violations)
				}
				return
			}

			if perr == nil {
				t.Fatalf("expected violations %v, got none", tt.want)
			}
			if len(perr.Violations) != len(tt.want) {
				t.Fatalf("violations = %v, want %v", perr.Violations, tt.want)
			}
			for i, v := range tt.want {
				if perr.Violations[i] != v {
					t.Fatalf("violations[%d] = %q, want %q", i, perr.Violations[i], v)
				}
			}
			if perr.Error() == "" {
				t.Fatal("empty error string")
			}
		})
	}
}
