package notifier

import (
	"log/slog"

	"github.com/amishk599/careerlens/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes notices to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each notice via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notice message at a level matching its severity, followed
// by one line per attached listing. Returns nil (logging does not fail).
func (n *LogNotifier) Notify(notice model.Notice) error {
	if notice.Message != "" {
		if notice.Level == model.NoticeError {
			n.logger.Error(notice.Message)
		} else {
			n.logger.Info(notice.Message, "level", string(notice.Level))
		}
	}
	for _, j := range notice.Listings {
		n.logger.Info("job listing",
			"title", j.Title,
			"company", j.CompanyName,
			"location", j.Location,
			"url", j.ApplyURL,
		)
	}
	return nil
}
