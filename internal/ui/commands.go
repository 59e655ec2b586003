package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
	"github.com/wemitwqw/calorie-tracker-go/internal/oauth"
)

// Messages. Every command ends in a refreshMsg or errMsg; the views re-read
// the store snapshots on each render, so no payload is carried.
type (
	refreshMsg       struct{}
	errMsg           struct{ err error }
	signInPendingMsg struct {
		url      string
		listener *oauth.Listener
	}
	signedInMsg struct{}
)

func (m Model) initCmd() tea.Cmd {
	return func() tea.Msg {
		m.services.Auth.Initialize(m.ctx)
		if m.stores.Sessions.Session() != nil {
			m.loadSignedInData()
		}
		return refreshMsg{}
	}
}

// loadSignedInData pulls the diary and catalog after a session appears.
// Failures are already logged by the services; the stores keep whatever
// state they had.
func (m Model) loadSignedInData() {
	_ = m.services.Meals.FetchMealDates(m.ctx)
	_ = m.services.Meals.FetchMealsForDate(m.ctx, m.stores.Dates.Selected())
	_ = m.services.Products.FetchProducts(m.ctx)
}

func (m Model) signInCmd() tea.Cmd {
	return func() tea.Msg {
		redirectURI := fmt.Sprintf("http://127.0.0.1:%d/auth/callback", m.callbackPort)
		url, state := m.services.Auth.SignInURL(m.oauthProvider, redirectURI)
		listener := oauth.NewListener(m.callbackPort, state, m.logger)
		listener.Start(m.ctx)
		return signInPendingMsg{url: url, listener: listener}
	}
}

func (m Model) waitForSignInCmd(listener *oauth.Listener) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, 5*time.Minute)
		defer cancel()

		res := listener.Wait(ctx)
		if res.Err != nil {
			return errMsg{res.Err}
		}
		if err := m.services.Auth.CompleteSignIn(m.ctx, res.Code); err != nil {
			return errMsg{err}
		}
		m.loadSignedInData()
		return signedInMsg{}
	}
}

func (m Model) signOutCmd() tea.Cmd {
	return func() tea.Msg {
		m.services.Auth.SignOut(m.ctx)
		return refreshMsg{}
	}
}

func (m Model) loadDiaryCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.services.Meals.FetchMealsForDate(m.ctx, m.stores.Dates.Selected()); err != nil {
			return errMsg{err}
		}
		return refreshMsg{}
	}
}

func (m Model) loadProductsCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.services.Products.FetchProducts(m.ctx); err != nil {
			return errMsg{err}
		}
		return refreshMsg{}
	}
}

func (m Model) loadWhitelistCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.services.Admin.FetchWhitelist(m.ctx); err != nil {
			return errMsg{err}
		}
		return refreshMsg{}
	}
}

func (m Model) addMealCmd(meal models.NewMeal) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.services.Meals.AddMeal(m.ctx, meal); err != nil {
			return errMsg{err}
		}
		return refreshMsg{}
	}
}

func (m Model) deleteMealCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.services.Meals.DeleteMeal(m.ctx, id); err != nil {
			return errMsg{err}
		}
		return refreshMsg{}
	}
}

func (m Model) addProductCmd(product models.NewProduct) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.services.Products.AddProduct(m.ctx, product); err != nil {
			return errMsg{err}
		}
		return refreshMsg{}
	}
}

func (m Model) deleteProductCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.services.Products.DeleteProduct(m.ctx, id); err != nil {
			return errMsg{err}
		}
		return refreshMsg{}
	}
}

func (m Model) addEmailCmd(email, notes string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.services.Admin.AddEmail(m.ctx, email, notes); err != nil {
			return errMsg{err}
		}
		return refreshMsg{}
	}
}

func (m Model) removeEmailCmd(email string) tea.Cmd {
	return func() tea.Msg {
		if err := m.services.Admin.RemoveEmail(m.ctx, email); err != nil {
			return errMsg{err}
		}
		return refreshMsg{}
	}
}
