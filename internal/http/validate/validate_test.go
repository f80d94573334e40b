package validate

import (
	"strings"
	"testing"

	"github.com/chainproxy/bitcoind-gateway/internal/pkg/gatewayerr"
)

type hashParams struct {
	Hash      string `validate:"required,hash64"`
	Verbosity int    `validate:"gte=0,lte=2"`
}

type multisigParams struct {
	NRequired int      `validate:"required,gte=1,lte=20"`
	Keys      []string `validate:"required,min=2,max=20,dive,pubkey"`
}

func Test_Check(t *testing.T) {
	v := New()

	validHash := strings.Repeat("ab", 32)

	type args struct {
		params           any
		coercionProblems []string
	}
	tests := []struct {
		name         string
		args         args
		wantProblems int
		wantContains string
	}{
		{
			name: "valid hash params",
			args: args{params: &hashParams{Hash: validHash, Verbosity: 1}},
		},
		{
			name:         "63 character hash reports length violation",
			args:         args{params: &hashParams{Hash: validHash[:63], Verbosity: 1}},
			wantProblems: 1,
			wantContains: "64-character hex hash",
		},
		{
			name:         "65 character hash reports length violation",
			args:         args{params: &hashParams{Hash: validHash + "a", Verbosity: 1}},
			wantProblems: 1,
			wantContains: "64-character hex hash",
		},
		{
			name:         "non-hex hash of correct length is rejected",
			args:         args{params: &hashParams{Hash: strings.Repeat("zz", 32), Verbosity: 1}},
			wantProblems: 1,
		},
		{
			name:         "every violation is reported, not only the first",
			args:         args{params: &hashParams{Hash: "abc", Verbosity: 7}},
			wantProblems: 2,
		},
		{
			name: "coercion problems merge with schema problems",
			args: args{
				params:           &hashParams{Hash: "abc", Verbosity: 1},
				coercionProblems: []string{`verbosity must be an integer, got "high"`},
			},
			wantProblems: 2,
		},
		{
			name:         "nrequired above 20 is rejected",
			args:         args{params: &multisigParams{NRequired: 25, Keys: []string{strings.Repeat("02", 33), strings.Repeat("03", 33)}}},
			wantProblems: 1,
			wantContains: "<= 20",
		},
		{
			name:         "short public key inside the list is rejected",
			args:         args{params: &multisigParams{NRequired: 2, Keys: []string{strings.Repeat("02", 33), "02abcd"}}},
			wantProblems: 1,
			wantContains: "public key",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(v, tt.args.params, tt.args.coercionProblems)

			if tt.wantProblems == 0 {
				if got != nil {
					t.Errorf("Check() = %v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatalf("Check() = nil, want %d problems", tt.wantProblems)
			}
			if got.Kind != gatewayerr.KindValidation || got.Status != 400 {
				t.Errorf("Check() kind = %s status = %d, want validation/400", got.Kind, got.Status)
			}
			if len(got.Details) != tt.wantProblems {
				t.Errorf("Check() details = %v, want %d entries", got.Details, tt.wantProblems)
			}
			if tt.wantContains != "" && !strings.Contains(strings.Join(got.Details, "\n"), tt.wantContains) {
				t.Errorf("Check() details = %v, want one mentioning %q", got.Details, tt.wantContains)
			}
		})
	}
}

func Test_Collector_Bool(t *testing.T) {
	type args struct {
		raw string
		def bool
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{name: "literal false", args: args{raw: "false", def: true}, want: false},
		{name: "literal true", args: args{raw: "true", def: false}, want: true},
		{name: "absent takes default", args: args{raw: "", def: true}, want: true},
		{name: "1 is not a literal", args: args{raw: "1", def: true}, want: true},
		{name: "no is not a literal", args: args{raw: "no", def: true}, want: true},
		{name: "FALSE is not a literal", args: args{raw: "FALSE", def: true}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector()
			if got := c.Bool(tt.args.raw, tt.args.def); got != tt.want {
				t.Errorf("Bool() = %v, want %v", got, tt.want)
			}
			if len(c.Problems()) != 0 {
				t.Errorf("Bool() collected problems %v, want none", c.Problems())
			}
		})
	}
}

func Test_Collector_Int(t *testing.T) {
	c := NewCollector()

	if got := c.Int("verbosity", "", 1); got != 1 {
		t.Errorf("Int() empty = %d, want default 1", got)
	}
	if got := c.Int("verbosity", "2", 1); got != 2 {
		t.Errorf("Int() = %d, want 2", got)
	}
	if got := c.Int("verbosity", "high", 1); got != 1 {
		t.Errorf("Int() unparsable = %d, want default 1", got)
	}

	if len(c.Problems()) != 1 {
		t.Fatalf("Int() problems = %v, want exactly one", c.Problems())
	}
	if !strings.Contains(c.Problems()[0], "verbosity") {
		t.Errorf("Int() problem %q does not name the field", c.Problems()[0])
	}
}
