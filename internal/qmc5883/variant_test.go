package qmc5883

import (
	"errors"
	"testing"
)

func TestRateCodeRoundTrip(t *testing.T) {
	info, err := ChipInfoByID(QMC5883L)
	if err != nil {
		t.Fatalf("ChipInfoByID() error = %v", err)
	}
	for code := range info.RateTable {
		hz, frac, err := info.SampleRate(byte(code))
		if err != nil {
			t.Fatalf("SampleRate(%d) error = %v", code, err)
		}
		got, err := info.RateCode(hz, frac)
		if err != nil {
			t.Fatalf("RateCode(%d, %d) error = %v", hz, frac, err)
		}
		if got != byte(code) {
			t.Errorf("RateCode(%d, %d) = %d, want %d", hz, frac, got, code)
		}
	}
}

func TestRateCodeNoMatch(t *testing.T) {
	info, _ := ChipInfoByID(QMC5883L)

	cases := [][2]int{{75, 0}, {10, 500000}, {0, 0}, {200, 1}}
	for _, c := range cases {
		if _, err := info.RateCode(c[0], c[1]); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("RateCode(%d, %d) error = %v, want ErrInvalidArgument", c[0], c[1], err)
		}
	}
}

func TestOversampleCodeRoundTrip(t *testing.T) {
	info, _ := ChipInfoByID(QMC5883L)
	for code := range info.OversampleTable {
		ratio, frac, err := info.Oversample(byte(code))
		if err != nil {
			t.Fatalf("Oversample(%d) error = %v", code, err)
		}
		got, err := info.OversampleCode(ratio, frac)
		if err != nil {
			t.Fatalf("OversampleCode(%d, %d) error = %v", ratio, frac, err)
		}
		if got != byte(code) {
			t.Errorf("OversampleCode(%d, %d) = %d, want %d", ratio, frac, got, code)
		}
	}
}

func TestGainReservedCode(t *testing.T) {
	info, _ := ChipInfoByID(QMC5883L)

	if _, err := info.Gain(2); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Gain(2) error = %v, want ErrInvalidState", err)
	}
	if _, err := info.Gain(3); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Gain(3) error = %v, want ErrInvalidState", err)
	}
}

func TestAvailableValues(t *testing.T) {
	info, _ := ChipInfoByID(QMC5883L)

	if got, want := info.AvailableSampleRates(), "10 50 100 200"; got != want {
		t.Errorf("AvailableSampleRates() = %q, want %q", got, want)
	}
	if got, want := info.AvailableOversampleRatios(), "512 256 128 64"; got != want {
		t.Errorf("AvailableOversampleRatios() = %q, want %q", got, want)
	}
	if got, want := info.AvailableScales(), "2 8"; got != want {
		t.Errorf("AvailableScales() = %q, want %q", got, want)
	}
}

func TestChipInfoUnknownID(t *testing.T) {
	if _, err := ChipInfoByID(ChipID(99)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ChipInfoByID(99) error = %v, want ErrInvalidArgument", err)
	}
}
