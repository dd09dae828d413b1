package httpx

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/adspend-efficiency/internal/models"
)

const defaultRangeDays = 7

var errBadRange = errors.New("bad date range")

// parseRange arma la ventana a partir de start/end o days/weeks/months hacia
// atrás desde end (por defecto hoy). Las ventanas son inclusivas: days=7
// cubre exactamente 7 días.
func parseRange(q url.Values, now time.Time) (models.Window, error) {
	end := models.Day(now)
	if s := strings.TrimSpace(q.Get("end")); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			return models.Window{}, fmt.Errorf("%w: end %q", errBadRange, s)
		}
		end = d
	}

	var start time.Time
	switch {
	case q.Get("start") != "":
		d, err := models.ParseDate(strings.TrimSpace(q.Get("start")))
		if err != nil {
			return models.Window{}, fmt.Errorf("%w: start %q", errBadRange, q.Get("start"))
		}
		start = d
	case q.Get("days") != "":
		n, err := positive(q, "days")
		if err != nil {
			return models.Window{}, err
		}
		start = end.AddDate(0, 0, -(n - 1))
	case q.Get("weeks") != "":
		n, err := positive(q, "weeks")
		if err != nil {
			return models.Window{}, err
		}
		start = end.AddDate(0, 0, -(n*7 - 1))
	case q.Get("months") != "":
		n, err := positive(q, "months")
		if err != nil {
			return models.Window{}, err
		}
		start = end.AddDate(0, -n, 1)
	default:
		start = end.AddDate(0, 0, -(defaultRangeDays - 1))
	}

	w, err := models.NewWindow(start, end)
	if err != nil {
		return models.Window{}, fmt.Errorf("%w: %v", errBadRange, err)
	}
	return w, nil
}

func positive(q url.Values, key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil || n <= 0 || n > 3660 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errBadRange, key)
	}
	return n, nil
}
