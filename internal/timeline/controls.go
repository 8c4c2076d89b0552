package timeline

// QuickButton is a canned reply offered next to the input.
type QuickButton struct {
	Label string
	Value string
}

// SetQuickButtons replaces the offered buttons. An empty list hides them.
func (w *Widget) SetQuickButtons(buttons []QuickButton) {
	w.mu.Lock()
	w.quickButtons = append([]QuickButton(nil), buttons...)
	w.mu.Unlock()
	w.logger.Debug().Int("buttons", len(buttons)).Msg("quick buttons set")
}

// QuickButtons returns the offered buttons.
func (w *Widget) QuickButtons() []QuickButton {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]QuickButton(nil), w.quickButtons...)
}

// ClickQuickButton hands the value of the button at index to the host. It
// reports whether a handler received it; out-of-range indexes are ignored.
func (w *Widget) ClickQuickButton(index int) bool {
	w.mu.Lock()
	if index < 0 || index >= len(w.quickButtons) {
		w.mu.Unlock()
		return false
	}
	button := w.quickButtons[index]
	w.mu.Unlock()

	if w.opts.QuickButtonClicked == nil {
		return false
	}
	w.logger.Debug().Str("label", button.Label).Msg("quick button clicked")
	w.opts.QuickButtonClicked(button.Value)
	return true
}

// SetInputDisabled enables or disables submissions.
func (w *Widget) SetInputDisabled(disabled bool) {
	w.mu.Lock()
	w.inputDisabled = disabled
	w.mu.Unlock()
}

// ToggleInputDisabled flips whether submissions are accepted.
func (w *Widget) ToggleInputDisabled() {
	w.mu.Lock()
	w.inputDisabled = !w.inputDisabled
	w.mu.Unlock()
}

// InputDisabled reports whether submissions are refused.
func (w *Widget) InputDisabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inputDisabled
}
