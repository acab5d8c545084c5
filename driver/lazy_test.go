package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/takoeight0821/npjs/logger"
)

type countingStringer struct {
	calls *int
}

func (c countingStringer) String() string {
	*c.calls++
	return "(root)"
}

func TestLazyRendersOnlyWhenRecorded(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		level string
		calls int
	}{
		{"warn", 0},
		{"info", 0},
		{"debug", 1},
	}

	for _, testcase := range testcases {
		var logs bytes.Buffer
		log, err := logger.New(testcase.level, &logs, nil)
		if err != nil {
			t.Fatalf("logger.New returned error: %v", err)
		}

		calls := 0
		log.Debug("parsed", "ast", lazy{countingStringer{&calls}})

		if calls != testcase.calls {
			t.Errorf("%s: String called %d times, want %d", testcase.level, calls, testcase.calls)
		}
		if testcase.calls > 0 && !strings.Contains(logs.String(), `ast=(root)`) {
			t.Errorf("%s: log = %q, want the rendered value", testcase.level, logs.String())
		}
	}

	calls := 0
	logger.Discard().Debug("parsed", "ast", lazy{countingStringer{&calls}})
	if calls != 0 {
		t.Errorf("Discard: String called %d times, want 0", calls)
	}
}
