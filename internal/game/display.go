package game

// Display is what the HUD shows. It is pushed to observers whenever it changes.
type Display struct {
	Score           int  `json:"score"`
	Lives           int  `json:"lives"`
	GameOverVisible bool `json:"game_over_visible"`
	FinalScore      int  `json:"final_score"`
}

// DisplayObserver is called synchronously from Step and Reset.
type DisplayObserver func(Display)

// Display returns the current HUD values.
func (w *World) Display() Display {
	return w.display
}

func (w *World) publish() {
	d := Display{
		Score:           w.State.Score,
		Lives:           w.Player.Lives,
		GameOverVisible: w.State.Phase == PhaseGameOver,
	}
	if d.GameOverVisible {
		d.FinalScore = w.State.Score
	}
	if d == w.display && w.published {
		return
	}
	w.display = d
	w.published = true
	for _, fn := range w.observers {
		fn(d)
	}
}
