// ABOUTME: Restoration strategy wizard as a bubbletea model
// ABOUTME: Uses huh forms with a step progress indicator to fill in run options

package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/grid-restore/config"
	"github.com/markalston/grid-restore/internal/tui/icons"
	"github.com/markalston/grid-restore/internal/tui/styles"
	"github.com/markalston/grid-restore/models"
)

// ErrCancelled is returned by Run when the user leaves the wizard early
var ErrCancelled = errors.New("wizard cancelled")

// WizardCompleteMsg is sent when the wizard finishes successfully
type WizardCompleteMsg struct {
	Config *config.Config
}

// WizardCancelledMsg is sent when the wizard is cancelled
type WizardCancelledMsg struct{}

// Wizard collects a restoration strategy as a bubbletea model
type Wizard struct {
	cfg   *config.Config
	form  *huh.Form
	step  int
	width int

	// Form field values (strings for huh)
	method     string
	sortType   string
	sortOrder  string
	sortUpdate bool
	budget     string
	delay      string
}

// Step names for progress indicator
var stepNames = []string{"Strategy", "Priority", "Budget & Delay"}

// createTheme returns a huh theme in the report palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	gray := lipgloss.Color("#9CA3AF")
	grayLight := lipgloss.Color("#E5E7EB")
	slate := lipgloss.Color("#334155")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)

	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(styles.Primary).
		SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().
		Foreground(grayLight)
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(grayLight)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Info).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(gray).
		Background(slate).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(gray)
	t.Blurred.SelectSelector = lipgloss.NewStyle().
		Foreground(gray).
		SetString("  ")
	t.Blurred.Option = lipgloss.NewStyle().
		Foreground(gray)

	return t
}

var methodOptions = []huh.Option[string]{
	huh.NewOption("Node first (finish one location before the next)", models.NodeFirst.String()),
	huh.NewOption("Class first (repair each asset class everywhere in turn)", models.ClassFirst.String()),
	huh.NewOption("Hybrid (node first over network classes, then over generation)", models.Hybrid.String()),
}

var sortTypeOptions = []huh.Option[string]{
	huh.NewOption("Repair cost", models.SortByCost.String()),
	huh.NewOption("Repair cost per person", models.SortByCostPerCapita.String()),
	huh.NewOption("Outage magnitude", models.SortByOutageMagnitude.String()),
}

var sortOrderOptions = []huh.Option[string]{
	huh.NewOption("Ascending", models.Ascending.String()),
	huh.NewOption("Descending", models.Descending.String()),
}

// New creates a wizard pre-filled from cfg. cfg itself is never modified.
func New(cfg *config.Config) *Wizard {
	if cfg == nil {
		cfg = config.Default()
	}
	c := *cfg

	w := &Wizard{
		cfg:        &c,
		step:       1,
		method:     c.RestoreMethod.String(),
		sortType:   c.SortType.String(),
		sortOrder:  c.SortOrder.String(),
		sortUpdate: c.SortUpdate,
		budget:     strconv.FormatFloat(c.Budget, 'f', -1, 64),
		delay:      strconv.Itoa(c.Delay),
	}
	w.form = w.createStep1Form()
	return w
}

func (w *Wizard) createStep1Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Restoration method").
				Description("Use ↑/↓ to select, Enter to confirm").
				Options(methodOptions...).
				Value(&w.method),
		).Title("Step 1: Strategy").
			Description("How the daily repair budget is spent"),
	).WithTheme(createTheme())
}

func (w *Wizard) createStep2Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Prioritize locations by").
				Options(sortTypeOptions...).
				Value(&w.sortType),
			huh.NewSelect[string]().
				Title("Order").
				Options(sortOrderOptions...).
				Value(&w.sortOrder),
			huh.NewConfirm().
				Title("Re-prioritize every day?").
				Affirmative("Yes").
				Negative("No").
				Value(&w.sortUpdate),
		).Title("Step 2: Priority").
			Description("Which damaged locations are repaired first"),
	).WithTheme(createTheme())
}

func (w *Wizard) createStep3Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Daily budget ($)").
				Description("Type a number and press Enter to continue").
				Placeholder("e.g., 12270000").
				CharLimit(16).
				Value(&w.budget).
				Validate(validateBudget),
			huh.NewInput().
				Title("Delay before repairs (days)").
				Placeholder("e.g., 7").
				CharLimit(5).
				Value(&w.delay).
				Validate(validateDelay),
		).Title("Step 3: Budget & Delay").
			Description("Crew spending per day and the assessment delay"),
	).WithTheme(createTheme())
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" || msg.String() == "ctrl+c" {
			return w, func() tea.Msg { return WizardCancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	switch w.form.State {
	case huh.StateCompleted:
		return w.advanceStep()
	case huh.StateAborted:
		return w, func() tea.Msg { return WizardCancelledMsg{} }
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.step {
	case 1:
		w.step = 2
		w.form = w.createStep2Form()
		return w, w.form.Init()

	case 2:
		w.step = 3
		w.form = w.createStep3Form()
		return w, w.form.Init()

	case 3:
		if err := w.apply(); err != nil {
			// Inputs are validated by the form, so this only fires on a programming error
			return w, func() tea.Msg { return WizardCancelledMsg{} }
		}
		cfg := w.cfg
		return w, func() tea.Msg { return WizardCompleteMsg{Config: cfg} }
	}

	return w, nil
}

// apply copies the form values into the wizard's configuration
func (w *Wizard) apply() error {
	var errs []error
	m, err := models.ParseRestoreMethod(w.method)
	errs = append(errs, err)
	st, err := models.ParseSortType(w.sortType)
	errs = append(errs, err)
	so, err := models.ParseSortOrder(w.sortOrder)
	errs = append(errs, err)
	budget, err := parseBudget(w.budget)
	errs = append(errs, err)
	delay, err := parseDelay(w.delay)
	errs = append(errs, err)
	if err := errors.Join(errs...); err != nil {
		return err
	}

	w.cfg.RestoreMethod = m
	w.cfg.SortType = st
	w.cfg.SortOrder = so
	w.cfg.SortUpdate = w.sortUpdate
	w.cfg.Budget = budget
	w.cfg.Delay = delay
	return nil
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// Config returns the configuration collected so far
func (w *Wizard) Config() *config.Config {
	return w.cfg
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder
	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")
	sb.WriteString(w.form.View())
	return sb.String()
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := max(w.width-1, 60)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}
	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │" = 5 chars overhead
	barWidth := width - 5
	filledWidth := (w.step * barWidth) / len(stepNames)
	emptyWidth := barWidth - filledWidth

	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))

	title := "Progress"
	topBorder := "┌─ " + titleStyle.Render(title) + " " + strings.Repeat("─", max(0, width-5-lipgloss.Width(title))) + "┐"
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", max(0, width-4-lipgloss.Width(stepsLine))) + " │"
	progressLine := "│  " + filledBar + emptyBar + " │"
	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLine,
		bottomBorder,
	}, "\n"))
}

func parseBudget(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil || v <= 0 {
		return 0, &models.ValidationError{Field: "budget", Reason: "must be a positive number"}
	}
	return v, nil
}

func parseDelay(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0, &models.ValidationError{Field: "delay", Reason: "must be zero or a positive whole number"}
	}
	return v, nil
}

func validateBudget(s string) error {
	if _, err := parseBudget(s); err != nil {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func validateDelay(s string) error {
	if _, err := parseDelay(s); err != nil {
		return fmt.Errorf("must be zero or a positive whole number")
	}
	return nil
}

// runner wraps the wizard so a standalone program quits when it finishes
type runner struct {
	wizard    *Wizard
	result    *config.Config
	cancelled bool
}

func (r *runner) Init() tea.Cmd { return r.wizard.Init() }

func (r *runner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case WizardCompleteMsg:
		r.result = msg.Config
		return r, tea.Quit
	case WizardCancelledMsg:
		r.cancelled = true
		return r, tea.Quit
	}
	_, cmd := r.wizard.Update(msg)
	return r, cmd
}

func (r *runner) View() string {
	if r.result != nil || r.cancelled {
		return ""
	}
	return r.wizard.View()
}

// Run shows the wizard in the terminal and returns the chosen configuration
func Run(cfg *config.Config) (*config.Config, error) {
	r := &runner{wizard: New(cfg)}
	if _, err := tea.NewProgram(r).Run(); err != nil {
		return nil, fmt.Errorf("running wizard: %w", err)
	}
	if r.cancelled || r.result == nil {
		return nil, ErrCancelled
	}
	return r.result, nil
}
