package quiz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/otabek-dev/poytaxt_bot/pkg/errors"
)

// Callback token prefixes carried in inline keyboard buttons.
const (
	CountTokenPrefix  = "count_"
	AnswerTokenPrefix = "ans:"
)

func CountToken(n int) string {
	return fmt.Sprintf("%s%d", CountTokenPrefix, n)
}

func ParseCountToken(data string) (int, error) {
	raw := strings.TrimPrefix(data, CountTokenPrefix)
	if raw == data {
		return 0, errors.New(errors.ErrCodeMalformedCallback, "not a count token: "+data)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeMalformedCallback, "bad count token: "+data)
	}
	return n, nil
}

// AnswerToken carries the chosen option together with the correct answer at
// the time the question was sent, so answer processing never re-queries the
// reference set. Capitals contain no ':' so the delimiter is safe.
func AnswerToken(option, correct string) string {
	return AnswerTokenPrefix + option + ":" + correct
}

func ParseAnswerToken(data string) (chosen, correct string, err error) {
	raw := strings.TrimPrefix(data, AnswerTokenPrefix)
	if raw == data {
		return "", "", errors.New(errors.ErrCodeMalformedCallback, "not an answer token: "+data)
	}
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.New(errors.ErrCodeMalformedCallback, "bad answer token: "+data)
	}
	return parts[0], parts[1], nil
}
