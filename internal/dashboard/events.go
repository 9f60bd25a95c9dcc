package dashboard

import (
	"context"
	"fmt"
)

// Event is a user action on the dashboard.
type Event interface {
	eventName() string
}

// ScanRequested is a click on the scan button.
type ScanRequested struct{}

// UpdateRequested is a click on the update-data button.
type UpdateRequested struct{}

// DetailsRequested is a click on a row's details button.
type DetailsRequested struct {
	Symbol string
}

// WatchlistRequested is a click on an add-to-watchlist button. An empty
// Symbol means the modal's fixed trigger, whose target is the stock the
// detail view last loaded.
type WatchlistRequested struct {
	Symbol string
}

// ModalClosed is a manual dismissal of the detail modal.
type ModalClosed struct{}

// StatusDismissed is a manual dismissal of the status message.
type StatusDismissed struct {
	ID string
}

func (ScanRequested) eventName() string      { return "scan" }
func (UpdateRequested) eventName() string    { return "update" }
func (DetailsRequested) eventName() string   { return "details" }
func (WatchlistRequested) eventName() string { return "watchlist" }
func (ModalClosed) eventName() string        { return "modal_closed" }
func (StatusDismissed) eventName() string    { return "status_dismissed" }

// Dispatch routes an event to its workflow.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case ScanRequested:
		return c.StartScan(ctx)
	case UpdateRequested:
		return c.UpdateData(ctx)
	case DetailsRequested:
		return c.ShowDetails(ctx, e.Symbol)
	case WatchlistRequested:
		return c.AddToWatchlist(ctx, e.Symbol)
	case ModalClosed:
		c.CloseDetails()
		return nil
	case StatusDismissed:
		c.board.Dismiss(e.ID)
		return nil
	default:
		return fmt.Errorf("unknown event %T", ev)
	}
}
