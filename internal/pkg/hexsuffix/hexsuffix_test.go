package hexsuffix

import (
	"reflect"
	"testing"
)

func Test_Derive(t *testing.T) {
	type args struct {
		h string
	}
	tests := []struct {
		name    string
		args    args
		want    Table
		wantErr bool
	}{
		{
			name: "short input saturates at its own length",
			args: args{h: "d7c8f4"},
			want: Table{
				{Length: 1, Hex: "4", Decimal: "4"},
				{Length: 2, Hex: "f4", Decimal: "244"},
				{Length: 3, Hex: "8f4", Decimal: "2292"},
				{Length: 4, Hex: "c8f4", Decimal: "51444"},
				{Length: 5, Hex: "7c8f4", Decimal: "510196"},
				{Length: 6, Hex: "d7c8f4", Decimal: "14141684"},
			},
		},
		{
			name: "single character",
			args: args{h: "A"},
			want: Table{
				{Length: 1, Hex: "a", Decimal: "10"},
			},
		},
		{
			name:    "empty input",
			args:    args{h: ""},
			wantErr: true,
		},
		{
			name:    "non-hex character",
			args:    args{h: "00fxff"},
			wantErr: true,
		},
		{
			name:    "0x prefix is not accepted",
			args:    args{h: "0xd7c8f4"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.args.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("Derive() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Derive() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_Derive_ExactAboveFloatPrecision(t *testing.T) {
	// 16 f characters are 2^64-1; any float64 path would mangle this.
	got, err := Derive("ffffffffffffffff")
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}

	if len(got) != MaxSuffixLen {
		t.Fatalf("Derive() produced %d entries, want %d", len(got), MaxSuffixLen)
	}

	if got[15].Decimal != "18446744073709551615" {
		t.Errorf("Derive() 64-bit decimal = %s, want 18446744073709551615", got[15].Decimal)
	}

	// 14 hex chars exceed 2^53, the float64 integer ceiling.
	if got[13].Decimal != "72057594037927935" {
		t.Errorf("Derive() 56-bit decimal = %s, want 72057594037927935", got[13].Decimal)
	}
}

func Test_Derive_CapsAtSixteenCharacters(t *testing.T) {
	hash := "00000000000000000002f3bcf5ab4b3b0bb1bbf45c0c4ef35e3b4e2d7c8d7c77"

	got, err := Derive(hash)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}

	if len(got) != MaxSuffixLen {
		t.Fatalf("Derive() produced %d entries, want %d", len(got), MaxSuffixLen)
	}

	if got[15].Hex != hash[len(hash)-16:] {
		t.Errorf("Derive() 16-char suffix = %s, want %s", got[15].Hex, hash[len(hash)-16:])
	}
}

func Test_Derive_Deterministic(t *testing.T) {
	first, err := Derive("DeadBeef")
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}

	second, err := Derive("deadbeef")
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Derive() is case or call sensitive: %v != %v", first, second)
	}
}

func Test_Table_LengthKeyed(t *testing.T) {
	table, err := Derive("8f4")
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}

	want := map[string]Value{
		"last_1_hex": {Hex: "4", Decimal: "4"},
		"last_2_hex": {Hex: "f4", Decimal: "244"},
		"last_3_hex": {Hex: "8f4", Decimal: "2292"},
	}

	if got := table.LengthKeyed(); !reflect.DeepEqual(got, want) {
		t.Errorf("LengthKeyed() got = %v, want %v", got, want)
	}
}

func Test_Table_RangeKeyed(t *testing.T) {
	table, err := Derive("ffffffffffffffff")
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}

	got := table.RangeKeyed()

	if got["0_15"] != "15" {
		t.Errorf("RangeKeyed() 4-bit label = %s, want 15", got["0_15"])
	}
	if got["0_4294967295"] != "4294967295" {
		t.Errorf("RangeKeyed() 32-bit label = %s, want 4294967295", got["0_4294967295"])
	}
	if got["0_18446744073709551615"] != "18446744073709551615" {
		t.Errorf("RangeKeyed() 64-bit label = %s, want 18446744073709551615", got["0_18446744073709551615"])
	}
}
