package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cloudcast/internal/utils"
)

// NewPostForm creates the form for marking the post point of the current file
func NewPostForm(fm *PostFormModel, title, duration string) *huh.Form {
	limit := utils.ToSeconds(duration)
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Post for " + title).
				Description(fmt.Sprintf("MM:SS or HH:MM:SS, file length %s", utils.Normalize(duration))).
				Value(&fm.Post).
				Validate(func(s string) error {
					secs := utils.ToSeconds(s)
					if secs <= 0 {
						return fmt.Errorf("post must be a positive MM:SS or HH:MM:SS duration")
					}
					if limit > 0 && secs > limit {
						return fmt.Errorf("post must fall within the file (%s)", utils.Normalize(duration))
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewDeactivateForm creates the confirmation for deactivating schedules
func NewDeactivateForm(fm *ConfirmationFormModel, titles []string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Deactivate %d schedule(s)?", len(titles))).
				Description(strings.Join(titles, "\n")).
				Affirmative("Deactivate").
				Negative("Keep").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
