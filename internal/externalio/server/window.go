package server

import (
	"net/http"
	"time"
)

// Default query window when no start time is given
const defaultWindow = time.Minute

// Reads the starttime/endtime query values. Start accepts RFC3339 or a
// duration relative to now (an unparseable duration falls back to the
// default window). End accepts RFC3339 or "now". A window ending before it
// starts, or starting in the future, is rejected.
func parseWindow(clientRequest *http.Request) (start, end time.Time, ok bool) {
	now := time.Now()

	rawEndTime := clientRequest.FormValue("endtime")
	if rawEndTime == "now" || rawEndTime == "" {
		end = now
	} else {
		var err error
		end, err = time.Parse(time.RFC3339Nano, rawEndTime)
		if err != nil {
			return
		}
	}

	rawStartTime := clientRequest.FormValue("starttime")
	switch {
	case rawStartTime == "":
		start = now.Add(-defaultWindow)
	case rawStartTime[0] == '-' || rawStartTime[0] == '+':
		dur, err := time.ParseDuration(rawStartTime)
		if err != nil {
			start = now.Add(-defaultWindow)
		} else {
			start = now.Add(dur)
		}
	default:
		var err error
		start, err = time.Parse(time.RFC3339Nano, rawStartTime)
		if err != nil {
			return
		}
	}

	if start.After(now) || end.Before(start) {
		return
	}
	ok = true
	return
}
