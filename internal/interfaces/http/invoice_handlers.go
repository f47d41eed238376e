package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-dashboard/internal/application/form"
	"github.com/garyjia/invoice-dashboard/internal/application/service"
	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

// MsgInvoiceDeleted confirms a DELETE request
const MsgInvoiceDeleted = "Deleted Invoice."

// CreateInvoice handles POST /dashboard/invoices
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var f form.InvoiceForm
	if err := c.ShouldBind(&f); err != nil {
		h.logger.Error("Failed to read invoice form", "error", err)
	}

	result := h.services.Invoices.CreateInvoice(c.Request.Context(), f)
	h.respondAction(c, result)
}

// UpdateInvoice handles POST and PUT /dashboard/invoices/:id
func (h *Handlers) UpdateInvoice(c *gin.Context) {
	var f form.InvoiceForm
	if err := c.ShouldBind(&f); err != nil {
		h.logger.Error("Failed to read invoice form", "error", err)
	}

	result := h.services.Invoices.UpdateInvoice(c.Request.Context(), c.Param("id"), f)
	h.respondAction(c, result)
}

// DeleteInvoice handles POST /dashboard/invoices/:id/delete and DELETE /dashboard/invoices/:id
func (h *Handlers) DeleteInvoice(c *gin.Context) {
	if err := h.services.Invoices.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Data:    form.State{Message: service.MsgDeleteDatabaseError},
			Error:   service.MsgDeleteDatabaseError,
		})
		return
	}

	if c.Request.Method == http.MethodDelete {
		c.JSON(http.StatusOK, Response{
			Success: true,
			Data:    form.State{Message: MsgInvoiceDeleted},
		})
		return
	}

	c.Redirect(http.StatusSeeOther, entity.InvoicesPath)
}

// respondAction redirects on success and otherwise returns the form state:
// 422 when fields are invalid, 500 when persistence failed
func (h *Handlers) respondAction(c *gin.Context, result service.ActionResult) {
	if result.Redirected() {
		c.Redirect(http.StatusSeeOther, result.RedirectTo)
		return
	}

	status := http.StatusInternalServerError
	if len(result.State.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, Response{
		Success: false,
		Data:    result.State,
		Error:   result.State.Message,
	})
}
