package contracts

import "testing"

func TestStage_ShortName(t *testing.T) {
	want := []string{"S0", "S1", "S2", "S3", "S4", "S5"}
	for i, stage := range AllStages() {
		if got := stage.ShortName(); got != want[i] {
			t.Errorf("%s.ShortName() = %s, want %s", stage, got, want[i])
		}
	}

	if got := Stage("S9_UNKNOWN").ShortName(); got != "UNKNOWN" {
		t.Errorf("unknown stage short name = %s", got)
	}
}

func TestIsValidStage(t *testing.T) {
	if !IsValidStage("S2_SCORING") {
		t.Error("S2_SCORING should be valid")
	}
	if IsValidStage("S6_EXECUTION") {
		t.Error("S6_EXECUTION should not be valid")
	}
}

func TestJoinDiagnostics_Rates(t *testing.T) {
	d := &JoinDiagnostics{InputCount: 200, OutputCount: 200, MissingArea: 5, MissingDeprivation: 8}

	if got := d.MissingAreaRate(); got != 0.025 {
		t.Errorf("MissingAreaRate() = %v, want 0.025", got)
	}
	if got := d.MissingDeprivationRate(); got != 0.04 {
		t.Errorf("MissingDeprivationRate() = %v, want 0.04", got)
	}
	if !d.LeftPreserving() {
		t.Error("expected left-preserving join")
	}

	empty := &JoinDiagnostics{}
	if got := empty.MissingAreaRate(); got != 0 {
		t.Errorf("empty MissingAreaRate() = %v, want 0", got)
	}
}

func TestRunManifest_Input(t *testing.T) {
	m := &RunManifest{Inputs: []InputFile{{Role: "sales", Path: "pp-2024.csv"}}}

	in, ok := m.Input("sales")
	if !ok || in.Path != "pp-2024.csv" {
		t.Errorf("Input(sales) = %+v, %v", in, ok)
	}
	if _, ok := m.Input("postcodes"); ok {
		t.Error("postcodes input should be absent")
	}
}
