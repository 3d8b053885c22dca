package mockapi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
)

//go:embed acts.json
var actsJSON []byte

func loadActs() ([]entities.Act, error) {
	var acts []entities.Act
	if err := json.Unmarshal(actsJSON, &acts); err != nil {
		return nil, fmt.Errorf("acts catalogue: %w", err)
	}
	return acts, nil
}

func (s *Server) actsOf(event domain.EventType) []entities.Act {
	out := make([]entities.Act, 0, 26)
	for _, a := range s.acts {
		if a.EventType == event {
			out = append(out, a)
		}
	}
	return entities.SortByRunningOrder(out)
}

func (s *Server) listActs(c echo.Context) error {
	event := domain.EventType(c.QueryParam("event"))
	if !event.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown event")
	}
	return c.JSON(http.StatusOK, entities.ActsResponse{Acts: s.actsOf(event)})
}
