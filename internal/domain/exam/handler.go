package exam

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/citotrack/citotrack/internal/platform/auth"
	"github.com/citotrack/citotrack/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireAnyClinicRole())

	g.POST("/exams", h.Register)
	g.GET("/exams", h.ListActive)
	g.GET("/exams/history", h.ListConcluded)
	g.GET("/exams/:id", h.GetExam)
	g.GET("/exams/:id/timeline", h.Timeline)
	g.GET("/exams/:id/audit", h.AuditTrail)
	g.GET("/exams/:id/whatsapp-link", h.NotificationLink)
	g.GET("/exams/:id/lab-whatsapp-link", h.LabFollowUpLink)
	g.POST("/exams/:id/advance", h.Advance)
	g.POST("/exams/:id/revert", h.Revert)
	g.POST("/exams/:id/opinion", h.SaveOpinion)
	g.PUT("/exams/:id/opinion", h.EditOpinion)
}

// httpError maps domain errors onto HTTP statuses.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrTransitionDenied):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrJustificationRequired), errors.Is(err, ErrValidationFailed):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func examID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid exam id")
	}
	return id, nil
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess := auth.SessionFromContext(c.Request().Context())
	e, err := h.svc.Register(c.Request().Context(), sess, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetExam(c echo.Context) error {
	id, err := examID(c)
	if err != nil {
		return err
	}
	e, err := h.svc.GetExam(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ListActive(c echo.Context) error {
	pg := pagination.FromContext(c)
	sess := auth.SessionFromContext(c.Request().Context())

	f := ActiveFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
	}
	if doctorID := c.QueryParam("doctor_id"); doctorID != "" {
		did, err := uuid.Parse(doctorID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
		}
		f.DoctorID = &did
	}

	items, total, err := h.svc.ListActive(c.Request().Context(), sess, f, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListConcluded(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListConcluded(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Timeline(c echo.Context) error {
	id, err := examID(c)
	if err != nil {
		return err
	}
	stages, err := h.svc.Timeline(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stages)
}

func (h *Handler) AuditTrail(c echo.Context) error {
	id, err := examID(c)
	if err != nil {
		return err
	}
	trail, err := h.svc.AuditTrail(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, trail)
}

func (h *Handler) NotificationLink(c echo.Context) error {
	id, err := examID(c)
	if err != nil {
		return err
	}
	sess := auth.SessionFromContext(c.Request().Context())
	link, err := h.svc.NotificationLink(c.Request().Context(), sess, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"link": link})
}

func (h *Handler) LabFollowUpLink(c echo.Context) error {
	id, err := examID(c)
	if err != nil {
		return err
	}
	link, err := h.svc.LabFollowUpLink(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"link": link})
}

func (h *Handler) Advance(c echo.Context) error {
	id, err := examID(c)
	if err != nil {
		return err
	}
	var in AdvanceInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess := auth.SessionFromContext(c.Request().Context())
	e, err := h.svc.Advance(c.Request().Context(), sess, id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, e)
}

type revertRequest struct {
	Target        string `json:"target"`
	Justification string `json:"justification"`
}

func (h *Handler) Revert(c echo.Context) error {
	id, err := examID(c)
	if err != nil {
		return err
	}
	var in revertRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess := auth.SessionFromContext(c.Request().Context())
	e, err := h.svc.Revert(c.Request().Context(), sess, id, in.Target, in.Justification)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) SaveOpinion(c echo.Context) error {
	id, err := examID(c)
	if err != nil {
		return err
	}
	var f OpinionFields
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess := auth.SessionFromContext(c.Request().Context())
	e, err := h.svc.SaveOpinion(c.Request().Context(), sess, id, f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, e)
}

type editOpinionRequest struct {
	OpinionFields
	Justification string `json:"justification"`
}

func (h *Handler) EditOpinion(c echo.Context) error {
	id, err := examID(c)
	if err != nil {
		return err
	}
	var in editOpinionRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess := auth.SessionFromContext(c.Request().Context())
	e, err := h.svc.EditOpinion(c.Request().Context(), sess, id, in.OpinionFields, in.Justification)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, e)
}
