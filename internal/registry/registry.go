package registry

import (
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// RedirectRoute maps a local short-link path to an external destination.
type RedirectRoute struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Destination string `json:"destination"`
}

var defaultRoutes = []RedirectRoute{
	{
		Name:        "Support Redirect",
		Path:        "/support-redirect/",
		Destination: "https://forms.monday.com/forms/236f7d6c52a0be10dd9a6541dfc318e9?r=use1",
	},
	{
		Name:        "Student Cribs Fault Report",
		Path:        "/Student-Cribs-Fault-Report/",
		Destination: "https://wkf.ms/4dfAxf7",
	},
	{
		Name:        "UrbanRest Support Redirect",
		Path:        "/urbanrest-support-redirect/",
		Destination: "https://forms.monday.com/forms/354bc6605fbffcfc231c6c54b88c69e9?r=use1",
	},
	{
		Name:        "Resooma Support Redirect",
		Path:        "/resooma-support-redirect/",
		Destination: "https://forms.monday.com/forms/d94222cdbf7f7ad9647ba19a9be84e53?r=use1",
	},
}

// Default returns the built-in redirect list in registry order.
// The returned slice is a copy and may be modified by the caller.
func Default() []RedirectRoute {
	routes := make([]RedirectRoute, len(defaultRoutes))
	copy(routes, defaultRoutes)
	return routes
}

// Lookup returns the route registered under path.
func Lookup(routes []RedirectRoute, path string) (RedirectRoute, bool) {
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return RedirectRoute{}, false
}

// Validate checks that every route is well formed and that paths are unique.
func Validate(routes []RedirectRoute) error {
	if err := validation.Validate(routes, validation.Required); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := seen[r.Path]; dup {
			return validation.NewError("validation_duplicate_path", "duplicate redirect path "+r.Path)
		}
		seen[r.Path] = struct{}{}
	}

	return nil
}

func (r RedirectRoute) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Path,
			validation.Required,
			validation.By(validatePath),
		),
		validation.Field(&r.Destination,
			validation.Required,
			validation.By(validateDestination),
		),
	)
}

func validatePath(value interface{}) error {
	p, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if !strings.HasPrefix(p, "/") {
		return validation.NewError("validation_invalid_path", "path must start with /")
	}

	return nil
}

func validateDestination(value interface{}) error {
	dest, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	parsedURL, err := url.Parse(dest)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}
