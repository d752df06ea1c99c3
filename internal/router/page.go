package router

import (
	"fmt"
	"strings"
)

// Page is a command accepted by the front controller's page parameter.
type Page string

// Pages served by the front controller.
const (
	PageHome           Page = "home"
	PageAccueil        Page = "accueil"
	PageConnected      Page = "connected"
	PageAdmin          Page = "admin"
	PageLogin          Page = "login"
	PageLogout         Page = "logout"
	PageAddRide        Page = "addTrajetPage"
	PageCreateRide     Page = "createTrajetAction"
	PageEditRide       Page = "editTrajetPage"
	PageUpdateRide     Page = "updateTrajetAction"
	PageDeleteRide     Page = "deleteTrajet"
	PageAdminRides     Page = "adminTrajets"
	PageUsers          Page = "usersPage"
	PageCreateUser     Page = "createUserAction"
	PageEditUser       Page = "editUserPage"
	PageUpdateUser     Page = "updateUserAction"
	PageDeleteUser     Page = "deleteUserAction"
	PageAgencies       Page = "agenciesPage"
	PageCreateAgency   Page = "createAgencyAction"
	PageEditAgency     Page = "editAgencyPage"
	PageUpdateAgency   Page = "updateAgencyAction"
	PageDeleteAgency   Page = "deleteAgencyAction"
	PageChangePassword Page = "changePasswordPage"
	PageUpdatePassword Page = "updatePasswordAction"
)

// PageNotFoundError is returned for a page no route is registered for.
type PageNotFoundError struct {
	Page string
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page %q not found", e.Page)
}

// ParsePage sanitizes the raw parameter and keeps its first path segment.
// An empty value means the home page.
func ParsePage(raw string) Page {
	clean := sanitize(raw)
	if i := strings.Index(clean, "/"); i >= 0 {
		clean = clean[:i]
	}
	if clean == "" {
		return PageHome
	}
	return Page(clean)
}

// sanitize drops every character that may not appear in a URL.
func sanitize(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r > 0x20 && r < 0x7f && !strings.ContainsRune(`"<>\^`+"`{|}", r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
