package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
	"github.com/wemitwqw/calorie-tracker-go/internal/store"
)

func testModel() Model {
	return New(Options{
		Stores: Stores{
			Sessions:  store.NewSessionStore(),
			Dates:     store.NewDateStore(),
			Meals:     store.NewMealStore(),
			Products:  store.NewProductStore(),
			Whitelist: store.NewWhitelistStore(),
		},
	})
}

func TestFormNumberParsing(t *testing.T) {
	f := newForm("test", "name", "calories")
	f.inputs[1].SetValue(" 240.5 ")
	assert.Equal(t, 240.5, f.number(1))

	f.inputs[1].SetValue("")
	assert.Equal(t, 0.0, f.number(1))

	f.inputs[1].SetValue("not a number")
	assert.Equal(t, 0.0, f.number(1))
}

func TestNextTabSkipsWhitelistForNonAdmins(t *testing.T) {
	m := testModel()
	m.stores.Sessions.SetSession(&models.Session{UserID: "u1"})

	m.tab = TabProducts
	assert.Equal(t, TabDiary, m.nextTab())

	m.stores.Sessions.SetAdmin(true)
	assert.Equal(t, TabWhitelist, m.nextTab())

	m.tab = TabWhitelist
	assert.Equal(t, TabDiary, m.nextTab())
}

func TestClampCursor(t *testing.T) {
	m := testModel()
	m.stores.Meals.SetMeals([]models.Meal{{ID: "a"}, {ID: "b"}})

	m.cursor = 5
	m.clampCursor()
	assert.Equal(t, 1, m.cursor)

	m.stores.Meals.SetMeals(nil)
	m.clampCursor()
	assert.Equal(t, 0, m.cursor)
}

func TestSignedOutViewOffersSignIn(t *testing.T) {
	m := testModel()
	m.stores.Sessions.SetLoading(false)

	out := m.View()
	assert.Contains(t, out, "Not signed in")
	assert.Contains(t, out, "sign in")
}

func TestLoadingViewRendersWhileSessionUnknown(t *testing.T) {
	m := testModel()
	assert.Contains(t, m.View(), "Checking session")
}

func TestQuitFromSignedOutScreen(t *testing.T) {
	m := testModel()
	m.stores.Sessions.SetLoading(false)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
