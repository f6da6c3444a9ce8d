package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// pageData is passed to every page template.
type pageData struct {
	Title    string
	Redirect string
}

// PageHandler serves the HTML shells of the browser pages. Pages hold no data;
// their scripts call the API with the bearer token obtained at login.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", pageData{Title: "Feedback Portal"})
}

func (h *PageHandler) Login(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", pageData{Title: "Log in", Redirect: safeRedirect(c.QueryParam("redirect"))})
}

func (h *PageHandler) Signup(c echo.Context) error {
	return c.Render(http.StatusOK, "signup.html", pageData{Title: "Sign up"})
}

func (h *PageHandler) Dashboard(c echo.Context) error {
	return c.Render(http.StatusOK, "dashboard.html", pageData{Title: "My feedback"})
}

func (h *PageHandler) Admin(c echo.Context) error {
	return c.Render(http.StatusOK, "admin.html", pageData{Title: "All feedback"})
}

// safeRedirect keeps post-login redirects on this site.
func safeRedirect(target string) string {
	if len(target) < 1 || target[0] != '/' || (len(target) > 1 && (target[1] == '/' || target[1] == '\\')) {
		return ""
	}
	return target
}
