package cli

import (
	"bytes"
	"fmt"

	"recitetester/internal/domain/models"
)

// FormatOutcome превращает исход операции в строку для вывода.
func FormatOutcome(o models.Outcome) string {
	switch o.Kind {
	case models.OutcomeConnected:
		return fmt.Sprintf("Connected to %s", o.Port)
	case models.OutcomeDisconnected:
		if o.Port == "" {
			return "Disconnected"
		}
		return fmt.Sprintf("Disconnected from %s", o.Port)
	case models.OutcomePortUnavailable:
		return withErr("Port unavailable", o.Err)
	case models.OutcomeVersionResult:
		if o.Version != nil && o.Version.Matched {
			return fmt.Sprintf("Firmware OK: %s", o.Version.Firmware)
		}
		return "No communication: unsupported firmware. Check that the Recite is powered and the cables are connected."
	case models.OutcomeSerialDecodeError:
		return withErr("Serial decode error", o.Err)
	case models.OutcomeSerialError:
		return withErr("Serial error! Please try the operation again", o.Err)
	case models.OutcomeNoSensors:
		return "No sensors connected"
	case models.OutcomeNoTemperatures:
		return "No temperatures received"
	case models.OutcomeCableValues:
		if o.Cables == nil {
			return "Cable values"
		}
		return fmt.Sprintf("%d boards, %d sensors, %d temperatures",
			len(o.Cables.Boards), o.Cables.SensorCount, len(o.Cables.Temperatures))
	}
	return o.Kind.String()
}

func withErr(msg string, err error) string {
	if err == nil {
		return msg
	}
	return fmt.Sprintf("%s (%v)", msg, err)
}

// FormatReport выводит таблицу по платам и итог.
func FormatReport(r *models.CableReport) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "%3s  %-23s  %-17s  %s\n", "#", "BOARD", "SENSOR", "TEMP")
	for _, row := range r.Rows {
		fmt.Fprintf(&w, "%3d  %-23s  %-17s  %s\n", row.Index, row.Board, row.SensorID, formatTemp(row))
	}

	verdict := "PASS"
	if !r.Passed() {
		verdict = "FAIL"
	}
	fmt.Fprintf(&w, "Sensors: %d, boards: %d, failed: %d, missing: %d, limit %.1f °C: %s",
		r.SensorCount, len(r.Rows), r.FailedCount, r.Missing, r.Limit, verdict)
	return w.String()
}

func formatTemp(row models.SensorRow) string {
	switch {
	case row.Temperature == nil:
		return "no reading"
	case row.Failed:
		return fmt.Sprintf("FAILED %.1f °C", *row.Temperature)
	}
	return fmt.Sprintf("%.1f °C", *row.Temperature)
}
