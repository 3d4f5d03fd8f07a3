// Package logtail reads the tail of the client log for the in-app log overlay.
//
// Read keeps a ring buffer of the last N lines, so memory stays bounded by N
// whatever the file size. Parse splits a log/slog text-handler line into time,
// level, message and trailing attributes so the UI can color each part, and
// Filter drops lines below a minimum level.
//
//	lines, err := logtail.Read(cfg.LogPath(), 500)
//	if err != nil {
//		return err
//	}
//	for _, line := range logtail.Filter(lines, "WARN") {
//		e := logtail.Parse(line)
//		fmt.Println(e.Level, e.Message)
//	}
package logtail
