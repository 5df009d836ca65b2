// Package event implements a JSON log event addressed by field references.
//
// A field reference is either a bare top-level name ("message") or a chain of
// bracketed segments ("[http][request][user_agent]"). Set creates missing
// intermediate objects; crossing a scalar is an error.
//
//	ev, err := event.Parse([]byte(`{"agent":"curl/8.4.0"}`))
//	if err != nil {
//		return err
//	}
//	ua, _ := ev.Get("agent")
//	_ = ev.Set("[user_agent][name]", "curl")
//
// Event is not safe for concurrent mutation.
package event
