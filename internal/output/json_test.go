package output

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/hostprint/hostprint/internal/analysis"
)

func TestToJSONRoundTrip(t *testing.T) {
	fp := sampleFingerprint()
	fp.Timestamp = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	an := analysis.Analyze(fp)

	s, err := ToJSON(fp, an)
	if err != nil {
		t.Fatal(err)
	}

	var rep Report
	if err := json.Unmarshal([]byte(s), &rep); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if !rep.Fingerprint.Timestamp.Equal(fp.Timestamp) {
		t.Errorf("timestamp = %v, want %v", rep.Fingerprint.Timestamp, fp.Timestamp)
	}
	if !reflect.DeepEqual(rep.Fingerprint.Network.Listeners, fp.Network.Listeners) {
		t.Error("listeners did not survive the round trip")
	}
	if rep.Fingerprint.Network.DroppedListeners != fp.Network.DroppedListeners {
		t.Errorf("dropped_listeners = %d, want %d",
			rep.Fingerprint.Network.DroppedListeners, fp.Network.DroppedListeners)
	}
	if rep.Analysis != an {
		t.Errorf("analysis = %+v, want %+v", rep.Analysis, an)
	}

	if !strings.Contains(s, `"severity": "critical"`) {
		t.Errorf("severity not serialized as a string:\n%s", s)
	}
	if !strings.HasPrefix(s, "{\n  ") {
		t.Error("output not indented")
	}
}
