// Package router wires the front controller, the JSON API and middleware.
package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"klaxon/internal/auth"
	apperrors "klaxon/internal/errors"
	"klaxon/internal/handler"
	"klaxon/internal/logging"
	"klaxon/internal/security"
	"klaxon/internal/session"
	"klaxon/internal/view"
)

// Handlers groups the controllers served by the router.
type Handlers struct {
	Home     *handler.HomeHandler
	Auth     *handler.AuthHandler
	Rides    *handler.RideHandler
	Users    *handler.UserHandler
	Agencies *handler.AgencyHandler
	API      *handler.APIHandler
}

// route holds the handler for each accepted method. A nil handler means the
// method is not served for that page.
type route struct {
	get  echo.HandlerFunc
	post echo.HandlerFunc
}

func both(h echo.HandlerFunc) route {
	return route{get: h, post: h}
}

// routes maps every page to its guarded handlers.
func routes(h Handlers) map[Page]route {
	login := security.RequireLogin
	admin := security.RequireAdmin

	return map[Page]route{
		PageHome:           {get: h.Home.Home},
		PageAccueil:        {get: h.Home.Home},
		PageConnected:      {get: login(h.Home.Connected)},
		PageAdmin:          {get: admin(h.Home.Admin)},
		PageLogin:          {get: h.Auth.LoginPage, post: h.Auth.Login},
		PageLogout:         both(h.Auth.Logout),
		PageChangePassword: {get: login(h.Auth.ChangePasswordPage)},
		PageUpdatePassword: {post: login(h.Auth.UpdatePassword)},

		PageAddRide:    {get: login(h.Rides.AddPage)},
		PageCreateRide: {post: login(h.Rides.Create)},
		PageEditRide:   {get: login(h.Rides.EditPage)},
		PageUpdateRide: {post: login(h.Rides.Update)},
		PageDeleteRide: both(login(h.Rides.Delete)),
		PageAdminRides: {get: admin(h.Rides.AdminList)},

		PageUsers:      {get: admin(h.Users.List)},
		PageCreateUser: {post: admin(h.Users.Create)},
		PageEditUser:   {get: admin(h.Users.EditPage)},
		PageUpdateUser: {post: admin(h.Users.Update)},
		PageDeleteUser: both(admin(h.Users.Delete)),

		PageAgencies:     {get: admin(h.Agencies.List)},
		PageCreateAgency: {post: admin(h.Agencies.Create)},
		PageEditAgency:   {get: admin(h.Agencies.EditPage)},
		PageUpdateAgency: {post: admin(h.Agencies.Update)},
		PageDeleteAgency: both(admin(h.Agencies.Delete)),
	}
}

// frontController dispatches on the page query parameter.
func frontController(routes map[Page]route) echo.HandlerFunc {
	return func(c echo.Context) error {
		page := ParsePage(c.QueryParam("page"))
		r, ok := routes[page]
		if !ok {
			return &PageNotFoundError{Page: string(page)}
		}

		next := r.get
		if c.Request().Method == http.MethodPost {
			next = r.post
		}
		if next == nil {
			return c.Redirect(http.StatusSeeOther, security.HomeURL)
		}
		return next(c)
	}
}

// Register wires routes and middleware.
func Register(e *echo.Echo, log logging.Logger, sessions *auth.SessionManager, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(log))
	e.Use(middleware.Recover())

	e.HTTPErrorHandler = ErrorHandler(log)

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	front := frontController(routes(h))
	methods := []string{http.MethodGet, http.MethodPost}
	e.Match(methods, "/", front, sessions.Middleware())
	e.Match(methods, "/index.php", front, sessions.Middleware())

	api := e.Group("/api", sessions.Middleware(), requireSession)
	api.GET("/rides", h.API.ListRides)
	api.GET("/agencies", h.API.ListAgencies)
}

// requireSession answers 401 to API callers without a signed-in session.
func requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !security.IsLoggedIn(session.FromContext(c)) {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "authentication required",
				Code:  "UNAUTHORIZED",
			})
		}
		return next(c)
	}
}

// RequestLogger logs one line per request through log.
func RequestLogger(log logging.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				log.Warn(ctx, "request", append(args, "error", v.Error.Error())...)
				return nil
			}
			log.Info(ctx, "request", args...)
			return nil
		},
	})
}

const genericErrorMessage = "An unexpected error occurred."

// ErrorHandler logs the error and answers with a generic body. Internal
// details never reach the client.
func ErrorHandler(log logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}

		ctx := c.Request().Context()
		if code >= http.StatusInternalServerError {
			log.Error(ctx, "request failed", "error", err.Error(), "uri", c.Request().RequestURI)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}

		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			_ = c.JSON(code, apiErrorBody(he, code))
			return
		}

		msg := genericErrorMessage
		if code < http.StatusInternalServerError {
			msg = http.StatusText(code)
		}
		page := &view.Page{
			Title: "Error",
			Data:  map[string]any{"status": code, "message": msg},
		}
		if rerr := c.Render(code, view.Error, page); rerr != nil {
			_ = c.HTML(code, "<h1>"+security.EscapeHTML(msg)+"</h1>")
		}
	}
}

func apiErrorBody(he *echo.HTTPError, code int) apperrors.ErrorResponse {
	if code >= http.StatusInternalServerError {
		return apperrors.ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}
	}
	if body, ok := he.Message.(apperrors.ErrorResponse); ok {
		return body
	}
	return apperrors.ErrorResponse{Error: http.StatusText(code), Code: "HTTP_ERROR"}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
