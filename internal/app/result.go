package app

import "turismo/internal/validation"

type Category string

const (
	Success Category = "success"
	Error   Category = "error"
	Warning Category = "warning"
	Info    Category = "info"
)

// Flash is a one-shot status message shown to the user.
type Flash struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

func flash(c Category, msg string) *Flash { return &Flash{Category: c, Message: msg} }

// Target names where the client goes next; the transport maps it to a URL.
type Target int

const (
	Stay Target = iota // re-render the submitted form
	HotelList
	HotelView
	HotelCreate
	PackageList
	PackageView
)

// Result is the outcome of a form or action handler.
type Result struct {
	Redirect Target
	ID       int64 // id for HotelView/PackageView, or the id just created
	Flash    *Flash
	Errors   validation.Errors
	Form     Form
	Choices  []HotelChoice
}

func (r Result) Rendered() bool { return r.Redirect == Stay }
