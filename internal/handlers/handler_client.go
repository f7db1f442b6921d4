package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	portssvc "github.com/SscSPs/class_credits_crm/internal/core/ports/services"
	"github.com/SscSPs/class_credits_crm/internal/dto"
	"github.com/SscSPs/class_credits_crm/internal/middleware"
)

// clientHandler handles HTTP requests related to clients and their credits.
type clientHandler struct {
	clientService         portssvc.ClientSvcFacade
	reconciliationService portssvc.ReconciliationSvc
}

func newClientHandler(cs portssvc.ClientSvcFacade, rs portssvc.ReconciliationSvc) *clientHandler {
	return &clientHandler{clientService: cs, reconciliationService: rs}
}

// registerClientRoutes registers routes related to clients.
func registerClientRoutes(rg *gin.RouterGroup, clientService portssvc.ClientSvcFacade, reconciliationService portssvc.ReconciliationSvc) {
	h := newClientHandler(clientService, reconciliationService)

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("", h.listClients)
		clients.GET("/:clientID", h.getClient)
		clients.PATCH("/:clientID", h.updateClient)
		clients.DELETE("/:clientID", h.deleteClient)
		clients.POST("/:clientID/purchases", h.purchaseCredits)
		clients.GET("/:clientID/transactions", h.listTransactions)
		clients.POST("/:clientID/reconcile", h.reconcileClient)
	}
}

// createClient godoc
// @Summary Create a client
// @Description Creates a paying family with its children and guardians. The credit balance starts at zero.
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} dto.ClientResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to create client"
// @Security BearerAuth
// @Router /clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "request format", err)
		return
	}
	actorID, ok := operatorID(c, logger)
	if !ok {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create client")
		return
	}
	c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

// listClients godoc
// @Summary List clients
// @Description Lists every client, or the one registered under phone.
// @Tags clients
// @Produce  json
// @Param   phone query string false "Exact phone number"
// @Success 200 {array} dto.ClientResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list clients"
// @Security BearerAuth
// @Router /clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListClientsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "query parameters", err)
		return
	}

	if params.Phone != "" {
		client, err := h.clientService.FindClientByPhone(c.Request.Context(), params.Phone)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusOK, []dto.ClientResponse{})
		case err != nil:
			respondError(c, logger, err, "Failed to find client")
		default:
			c.JSON(http.StatusOK, []dto.ClientResponse{dto.ToClientResponse(client)})
		}
		return
	}

	clients, err := h.clientService.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list clients")
		return
	}
	c.JSON(http.StatusOK, dto.ToListClientResponse(clients))
}

// getClient godoc
// @Summary Get a client
// @Tags clients
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{clientID} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", c.Param("clientID")))
	client, err := h.clientService.GetClient(c.Request.Context(), c.Param("clientID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve client")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// updateClient godoc
// @Summary Update a client
// @Description Changes phone number, campaign source, children or guardians. Supplied lists replace the stored ones. Balances are not affected.
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   client body dto.UpdateClientRequest true "Fields to change"
// @Success 200 {object} dto.ClientResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Failure 409 {object} dto.ErrorResponse "Phone number taken or concurrent update"
// @Security BearerAuth
// @Router /clients/{clientID} [patch]
func (h *clientHandler) updateClient(c *gin.Context) {
	clientID := c.Param("clientID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", clientID))
	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "request format", err)
		return
	}
	actorID, ok := operatorID(c, logger)
	if !ok {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), clientID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// deleteClient godoc
// @Summary Delete a client
// @Description Removes the client. Remaining credits are not refunded and ledger entries are kept.
// @Tags clients
// @Param   clientID path string true "Client ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{clientID} [delete]
func (h *clientHandler) deleteClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", c.Param("clientID")))
	actorID, ok := operatorID(c, logger)
	if !ok {
		return
	}
	if err := h.clientService.DeleteClient(c.Request.Context(), c.Param("clientID"), actorID); err != nil {
		respondError(c, logger, err, "Failed to delete client")
		return
	}
	c.Status(http.StatusNoContent)
}

// purchaseCredits godoc
// @Summary Sell credits to a client
// @Description Adds credits and appends a CREDIT ledger entry. Overpayment against pricePerCredit goes to the money balance.
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   purchase body dto.PurchaseCreditsRequest true "Purchase details"
// @Success 201 {object} dto.PurchaseCreditsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent update, retry"
// @Security BearerAuth
// @Router /clients/{clientID}/purchases [post]
func (h *clientHandler) purchaseCredits(c *gin.Context) {
	clientID := c.Param("clientID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", clientID))
	var req dto.PurchaseCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "request format", err)
		return
	}
	actorID, ok := operatorID(c, logger)
	if !ok {
		return
	}

	client, txn, err := h.clientService.PurchaseCredits(c.Request.Context(), clientID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to purchase credits")
		return
	}
	c.JSON(http.StatusCreated, dto.PurchaseCreditsResponse{
		Client:      dto.ToClientResponse(client),
		Transaction: dto.ToTransactionResponse(txn),
	})
}

// listTransactions godoc
// @Summary List a client's ledger
// @Description Returns ledger entries newest first, one page at a time.
// @Tags clients
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{clientID}/transactions [get]
func (h *clientHandler) listTransactions(c *gin.Context) {
	clientID := c.Param("clientID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", clientID))
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "query parameters", err)
		return
	}

	txns, next, err := h.clientService.ListClientTransactions(c.Request.Context(), clientID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    next,
	})
}

// reconcileClient godoc
// @Summary Reconcile one client
// @Description Recomputes the credit balance from the ledger and repairs the stored counter.
// @Tags reconciliation
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   dryRun query bool false "Report without writing"
// @Success 200 {object} domain.BalanceCorrection
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Failure 500 {object} dto.ErrorResponse "Ledger inconsistent"
// @Security BearerAuth
// @Router /clients/{clientID}/reconcile [post]
func (h *clientHandler) reconcileClient(c *gin.Context) {
	clientID := c.Param("clientID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", clientID))
	var params dto.ReconcileParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "query parameters", err)
		return
	}
	actorID, ok := operatorID(c, logger)
	if !ok {
		return
	}

	correction, err := h.reconciliationService.ReconcileClient(c.Request.Context(), clientID, domain.ReconcileOptions{DryRun: params.DryRun, ActorID: actorID})
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile client")
		return
	}
	c.JSON(http.StatusOK, correction)
}
