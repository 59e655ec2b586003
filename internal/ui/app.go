// Package ui is the terminal front end. It consumes the stores as
// snapshots and drives the sync services through Bubble Tea commands.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
	"github.com/wemitwqw/calorie-tracker-go/internal/service"
	"github.com/wemitwqw/calorie-tracker-go/internal/store"
)

// Tab is the active screen.
type Tab int

const (
	TabDiary Tab = iota
	TabProducts
	TabWhitelist
)

// mode is the input mode inside a tab.
type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeFormMeal
	modeFormProduct
	modeFormEmail
)

// Stores bundles the state containers the UI reads.
type Stores struct {
	Sessions  *store.SessionStore
	Dates     *store.DateStore
	Meals     *store.MealStore
	Products  *store.ProductStore
	Whitelist *store.WhitelistStore
}

// Services bundles the sync services the UI invokes.
type Services struct {
	Auth     *service.AuthService
	Meals    *service.MealService
	Products *service.ProductService
	Admin    *service.AdminService
}

// Options configures the UI.
type Options struct {
	Context       context.Context
	Stores        Stores
	Services      Services
	OAuthProvider string
	CallbackPort  int
	Logger        zerolog.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx           context.Context
	stores        Stores
	services      Services
	oauthProvider string
	callbackPort  int
	logger        zerolog.Logger
	styles        Styles

	tab    Tab
	mode   mode
	cursor int
	form   form
	search string

	signInURL string
	errText   string
	width     int
	height    int
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return Model{
		ctx:           ctx,
		stores:        opts.Stores,
		services:      opts.Services,
		oauthProvider: opts.OAuthProvider,
		callbackPort:  opts.CallbackPort,
		logger:        opts.Logger,
		styles:        DefaultStyles(),
	}
}

// Run boots the program and blocks until quit.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.initCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case errMsg:
		m.errText = msg.err.Error()
		return m, nil

	case refreshMsg:
		m.clampCursor()
		return m, nil

	case signInPendingMsg:
		m.signInURL = msg.url
		return m, m.waitForSignInCmd(msg.listener)

	case signedInMsg:
		m.signInURL = ""
		m.errText = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode != modeNormal {
		cmd := m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.mode == modeSearch {
		return m.handleSearchKey(msg)
	}
	if m.mode != modeNormal {
		return m.handleFormKey(msg)
	}

	// Signed-out screen only offers sign-in.
	if m.stores.Sessions.Session() == nil {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "s":
			if m.signInURL == "" {
				return m, m.signInCmd()
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.tab = m.nextTab()
		m.cursor = 0
		m.errText = ""
		if m.tab == TabWhitelist {
			return m, m.loadWhitelistCmd()
		}
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		m.cursor++
		m.clampCursor()
		return m, nil
	case "r":
		switch m.tab {
		case TabDiary:
			return m, m.loadDiaryCmd()
		case TabProducts:
			return m, m.loadProductsCmd()
		case TabWhitelist:
			return m, m.loadWhitelistCmd()
		}
	case "o":
		return m, m.signOutCmd()
	}

	switch m.tab {
	case TabDiary:
		return m.handleDiaryKey(msg)
	case TabProducts:
		return m.handleProductsKey(msg)
	case TabWhitelist:
		return m.handleWhitelistKey(msg)
	}
	return m, nil
}

func (m Model) handleDiaryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		return m.shiftDate(-1)
	case "right", "l":
		return m.shiftDate(1)
	case "t":
		m.stores.Dates.SetSelected(models.Today())
		return m, m.loadDiaryCmd()
	case "a":
		m.mode = modeFormMeal
		m.form = newForm("Log a meal", "name", "calories", "protein", "carbs", "fat", "fiber")
		return m, nil
	case "d":
		meals := m.stores.Meals.Meals()
		if m.cursor < len(meals) {
			return m, m.deleteMealCmd(meals[m.cursor].ID)
		}
	}
	return m, nil
}

func (m Model) handleProductsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.mode = modeSearch
		return m, nil
	case "a":
		m.mode = modeFormProduct
		m.form = newForm("Add a product",
			"name", "calories", "protein", "carbs", "fat", "fiber", "serving size", "serving unit")
		return m, nil
	case "d":
		products := m.stores.Products.Filtered()
		if m.cursor < len(products) {
			return m, m.deleteProductCmd(products[m.cursor].ID)
		}
	}
	return m, nil
}

func (m Model) handleWhitelistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.stores.Sessions.IsAdmin() {
		return m, nil
	}
	switch msg.String() {
	case "a":
		m.mode = modeFormEmail
		m.form = newForm("Whitelist an email", "email", "notes")
		return m, nil
	case "d":
		entries := m.stores.Whitelist.Entries()
		if m.cursor < len(entries) {
			return m, m.removeEmailCmd(entries[m.cursor].Email)
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.mode = modeNormal
		if msg.Type == tea.KeyEsc {
			m.search = ""
			m.services.Products.Search("")
		}
		return m, nil
	case tea.KeyBackspace:
		if len(m.search) > 0 {
			m.search = m.search[:len(m.search)-1]
		}
	case tea.KeyRunes, tea.KeySpace:
		m.search += msg.String()
	}
	m.services.Products.Search(m.search)
	m.cursor = 0
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		return m, nil
	case tea.KeyTab:
		m.form.next()
		return m, nil
	case tea.KeyEnter:
		return m.submitForm()
	}
	cmd := m.form.update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	submitted := m.mode
	m.mode = modeNormal
	switch submitted {
	case modeFormMeal:
		return m, m.addMealCmd(models.NewMeal{
			Name:     m.form.value(0),
			Calories: m.form.number(1),
			Protein:  m.form.number(2),
			Carbs:    m.form.number(3),
			Fat:      m.form.number(4),
			Fiber:    m.form.number(5),
			Date:     m.stores.Dates.Selected(),
		})
	case modeFormProduct:
		return m, m.addProductCmd(models.NewProduct{
			Name:        m.form.value(0),
			Calories:    m.form.number(1),
			Protein:     m.form.number(2),
			Carbs:       m.form.number(3),
			Fat:         m.form.number(4),
			Fiber:       m.form.number(5),
			ServingSize: m.form.number(6),
			ServingUnit: m.form.value(7),
		})
	case modeFormEmail:
		return m, m.addEmailCmd(m.form.value(0), m.form.value(1))
	}
	return m, nil
}

func (m *Model) shiftDate(days int) (tea.Model, tea.Cmd) {
	selected, err := time.ParseInLocation(models.DateLayout, m.stores.Dates.Selected(), time.Local)
	if err != nil {
		selected = time.Now()
	}
	m.stores.Dates.SetSelected(selected.AddDate(0, 0, days).Format(models.DateLayout))
	m.cursor = 0
	return *m, m.loadDiaryCmd()
}

func (m Model) nextTab() Tab {
	switch m.tab {
	case TabDiary:
		return TabProducts
	case TabProducts:
		if m.stores.Sessions.IsAdmin() {
			return TabWhitelist
		}
		return TabDiary
	default:
		return TabDiary
	}
}

func (m *Model) clampCursor() {
	var n int
	switch m.tab {
	case TabDiary:
		n = m.stores.Meals.Len()
	case TabProducts:
		n = len(m.stores.Products.Filtered())
	case TabWhitelist:
		n = len(m.stores.Whitelist.Entries())
	}
	if n == 0 {
		m.cursor = 0
	} else if m.cursor >= n {
		m.cursor = n - 1
	}
}
