package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayaocrm/crm/internal/middleware"
	"github.com/ayaocrm/crm/internal/model"
	"github.com/ayaocrm/crm/internal/service"
)

type newCustomer struct {
	Name       string  `json:"name" validate:"required"`
	WhatsApp   string  `json:"whatsapp"`
	Line       string  `json:"line"`
	Telegram   string  `json:"telegram"`
	Country    string  `json:"country"`
	City       string  `json:"city"`
	Age        int     `json:"age" validate:"omitempty,gte=0,lte=150"`
	Job        string  `json:"job"`
	Income     string  `json:"income"`
	Relation   string  `json:"relation"`
	DealAmount float64 `json:"dealAmount" validate:"omitempty,gte=0"`
	Level      string  `json:"level" validate:"omitempty,oneof=normal important vip"`
	Progress   string  `json:"progress" validate:"omitempty,oneof=uncontacted negotiating closed-won lost"`
	MainOwner  *string `json:"mainOwner"`
	Assistant  string  `json:"assistant"`
	Remark     string  `json:"remark"`
}

type updateCustomer struct {
	ID         string          `param:"id" validate:"required,uuid"`
	Name       *string         `json:"name"`
	WhatsApp   *string         `json:"whatsapp"`
	Line       *string         `json:"line"`
	Telegram   *string         `json:"telegram"`
	Country    *string         `json:"country"`
	City       *string         `json:"city"`
	Age        *int            `json:"age" validate:"omitempty,gte=0,lte=150"`
	Job        *string         `json:"job"`
	Income     *string         `json:"income"`
	Relation   *string         `json:"relation"`
	DealAmount *float64        `json:"dealAmount" validate:"omitempty,gte=0"`
	Level      *model.Level    `json:"level" validate:"omitempty,oneof=normal important vip"`
	Progress   *model.Progress `json:"progress" validate:"omitempty,oneof=uncontacted negotiating closed-won lost"`
	MainOwner  *string         `json:"mainOwner"`
	Assistant  *string         `json:"assistant"`
	Remark     *string         `json:"remark"`
}

type newFollowup struct {
	CustomerID string `param:"id" validate:"required,uuid"`
	Note       string `json:"note" validate:"required"`
	NextAction string `json:"nextAction"`
}

// CustomerHTTPHandler is http handler for customer records and followups
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{customerSvc: customerSvc}
}

// Get returns single customer visible to the actor
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	cust, err := h.customerSvc.FindByID(c.Request().Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return err
	}
	if cust == nil {
		return c.NoContent(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, cust)
}

// GetAll returns customers visible to the actor, newest first
func (h *CustomerHTTPHandler) GetAll(c echo.Context) error {
	customers, err := h.customerSvc.FindAllVisible(c.Request().Context(), middleware.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

// Post creates new customer record
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	var nc newCustomer
	if err := c.Bind(&nc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nc); err != nil {
		return err
	}

	cust, err := h.customerSvc.Create(c.Request().Context(), middleware.Actor(c), &model.Customer{
		Name:       nc.Name,
		WhatsApp:   nc.WhatsApp,
		Line:       nc.Line,
		Telegram:   nc.Telegram,
		Country:    nc.Country,
		City:       nc.City,
		Age:        nc.Age,
		Job:        nc.Job,
		Income:     nc.Income,
		Relation:   nc.Relation,
		DealAmount: nc.DealAmount,
		Level:      model.Level(nc.Level),
		Progress:   model.Progress(nc.Progress),
		MainOwner:  nc.MainOwner,
		Assistant:  nc.Assistant,
		Remark:     nc.Remark,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cust)
}

// Put applies partial update - id and creation timestamp are immutable
// and not part of the payload
func (h *CustomerHTTPHandler) Put(c echo.Context) error {
	var uc updateCustomer
	if err := c.Bind(&uc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&uc); err != nil {
		return err
	}

	cust, err := h.customerSvc.Update(c.Request().Context(), middleware.Actor(c), uc.ID, &model.CustomerPatch{
		Name:       uc.Name,
		WhatsApp:   uc.WhatsApp,
		Line:       uc.Line,
		Telegram:   uc.Telegram,
		Country:    uc.Country,
		City:       uc.City,
		Age:        uc.Age,
		Job:        uc.Job,
		Income:     uc.Income,
		Relation:   uc.Relation,
		DealAmount: uc.DealAmount,
		Level:      uc.Level,
		Progress:   uc.Progress,
		MainOwner:  uc.MainOwner,
		Assistant:  uc.Assistant,
		Remark:     uc.Remark,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cust)
}

// DeleteByID deletes customer record, followups stay retrievable
func (h *CustomerHTTPHandler) DeleteByID(c echo.Context) error {
	if err := h.customerSvc.DeleteByID(c.Request().Context(), middleware.Actor(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetFollowups lists followups of a customer, newest first
func (h *CustomerHTTPHandler) GetFollowups(c echo.Context) error {
	followups, err := h.customerSvc.Followups(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, followups)
}

// PostFollowup records new followup note for a customer
func (h *CustomerHTTPHandler) PostFollowup(c echo.Context) error {
	var nf newFollowup
	if err := c.Bind(&nf); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nf); err != nil {
		return err
	}

	followup, err := h.customerSvc.AddFollowup(c.Request().Context(), middleware.Actor(c), nf.CustomerID, nf.Note, nf.NextAction)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, followup)
}
