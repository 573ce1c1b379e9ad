package recite

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	FirmwareBanner   = "SDI12/RS485 BRIDGE MAIN APP "
	zeroSensorMarker = "0 sensors"
)

var (
	// Баннер может встретиться в любом месте ответа: перед ним бывает эхо и мусор
	firmwarePattern = regexp.MustCompile(regexp.QuoteMeta(FirmwareBanner) + `([0-9]+\.[0-9]+[a-z])`)

	// 8 групп по два hex-символа, разделённых пробелами
	boardPattern = regexp.MustCompile(`\b((?:[0-9a-fA-F]{2}[ \t]+){7}[0-9a-fA-F]{2})\b`)

	sensorCountPattern = regexp.MustCompile(`([0-9]+)[ \t]+sensors`)

	// 6 групп и "temp =". Остаток строки захватывается целиком,
	// чтобы битая запись давала ошибку, а не пропуск.
	temperaturePattern = regexp.MustCompile(`\b((?:[0-9a-fA-F]{2}[ \t]+){6})[ \t]*temp =([^\r\n]*)`)
	tempValuePattern   = regexp.MustCompile(`^[ \t]+([-+]?[0-9]+(?:\.[0-9]+)?)[ \t]+C[ \t]*$`)
)

// MatchFirmware ищет баннер прошивки и возвращает версию (например "0.3a").
func MatchFirmware(text string) (string, bool) {
	m := firmwarePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsZeroSensors возвращает true, только если ответ начинается с "0 sensors".
// "10 sensors" и т.п. сюда не попадают.
func IsZeroSensors(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), zeroSensorMarker)
}

// ParseBoards извлекает адреса плат в порядке появления.
func ParseBoards(text string) []string {
	matches := boardPattern.FindAllStringSubmatch(text, -1)
	boards := make([]string, 0, len(matches))
	for _, m := range matches {
		boards = append(boards, normalizeID(m[1]))
	}
	return boards
}

// ParseSensorCount возвращает число перед словом "sensors".
func ParseSensorCount(text string) (int, error) {
	m := sensorCountPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, fmt.Errorf("%w: нет числа датчиков в ответе", ErrSerial)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: число датчиков %q: %v", ErrSerial, m[1], err)
	}
	return n, nil
}

// ParseTemperatures разбирает ответ на команду temps.
// Любое некорректное значение прерывает разбор целиком.
func ParseTemperatures(text string) (map[string]float64, error) {
	temps := make(map[string]float64)
	for _, m := range temperaturePattern.FindAllStringSubmatch(text, -1) {
		id := normalizeID(m[1])
		value := tempValuePattern.FindStringSubmatch(m[2])
		if value == nil {
			return nil, fmt.Errorf("%w: некорректная температура %q для %s", ErrSerial, strings.TrimSpace(m[2]), id)
		}
		v, err := strconv.ParseFloat(value[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: некорректная температура %q для %s: %v", ErrSerial, value[1], id, err)
		}
		temps[id] = v
	}
	return temps, nil
}

// normalizeID убирает крайние пробелы и схлопывает внутренние
func normalizeID(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
