package v1handler_test

import (
	"net/http"
	"storefront/pkg/controller"
	"storefront/pkg/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUIState_DefaultsClosed(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/ui", "", controller.SessionHeader, "s1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"miniCartOpen":false}`, rec.Body.String())
}

func TestUIState_SetMiniCart(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/v1/ui/mini-cart", `{"open":true,"extra":[1,2]}`, controller.SessionHeader, "s1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"miniCartOpen":true}`, rec.Body.String())
	require.True(t, f.sessions.Get("s1").MiniCartOpen())

	// same value again is accepted
	rec = f.do(t, http.MethodPut, "/v1/ui/mini-cart", `{"open":true}`, controller.SessionHeader, "s1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/ui", "", controller.SessionHeader, "s1")
	require.JSONEq(t, `{"miniCartOpen":true}`, rec.Body.String())

	// other sessions are unaffected
	rec = f.do(t, http.MethodGet, "/v1/ui", "", controller.SessionHeader, "s2")
	require.JSONEq(t, `{"miniCartOpen":false}`, rec.Body.String())
}

func TestUIState_SetMiniCart_BadBody(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{``, `{}`, `{"open":"yes"}`, `[true]`, `null`} {
		rec := f.do(t, http.MethodPut, "/v1/ui/mini-cart", body, controller.SessionHeader, "s1")
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.JSONEq(t, `{"message":"body must be {\"open\": boolean}"}`, rec.Body.String(), body)
	}
	require.False(t, f.sessions.Get("s1").MiniCartOpen())
}

func TestUIState_CookieSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/v1/ui/mini-cart", `{"open":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "sid", cookies[0].Name)

	st, ok := f.sessions.Lookup(domain.SessionID(cookies[0].Value))
	require.True(t, ok)
	require.True(t, st.MiniCartOpen())
}

func TestUIState_EndSession(t *testing.T) {
	f := newFixture(t)
	f.sessions.Get("s1").SetMiniCartOpen(true)

	rec := f.do(t, http.MethodDelete, "/v1/ui", "", controller.SessionHeader, "s1")
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, ok := f.sessions.Lookup("s1")
	require.False(t, ok)

	rec = f.do(t, http.MethodGet, "/v1/ui", "", controller.SessionHeader, "s1")
	require.JSONEq(t, `{"miniCartOpen":false}`, rec.Body.String())
}
