package chance

import "go.uber.org/zap"

// LoggedRoller decorates a Roller so that every evaluation is logged at debug
// level with expression, dice values, modifier, and total.
type LoggedRoller struct {
	roller *Roller
	logger *zap.Logger
}

// NewLoggedRoller creates a LoggedRoller that rolls with src and logs each
// evaluation to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *LoggedRoller {
	return &LoggedRoller{roller: NewRoller(src), logger: logger}
}

// Roll evaluates roll and logs the result at debug level.
//
// Precondition: roll must come from ParseRoll.
func (l *LoggedRoller) Roll(roll Roll) Result {
	result := l.roller.Roll(roll)
	l.logger.Debug("roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses expr and evaluates it, logging the result.
//
// Postcondition: Returns a Result or a parse error.
func (l *LoggedRoller) RollExpr(expr string) (Result, error) {
	r, err := ParseRoll(expr)
	if err != nil {
		return Result{}, err
	}
	return l.Roll(r), nil
}

// Percent runs a probability check and logs the outcome at debug level.
func (l *LoggedRoller) Percent(p float64) bool {
	passed := l.roller.Percent(p)
	l.logger.Debug("percent check",
		zap.Float64("chance", p),
		zap.Bool("passed", passed),
	)
	return passed
}

// Between returns a uniform int in [low, high] and logs the draw at debug level.
//
// Precondition: low <= high.
func (l *LoggedRoller) Between(low, high int) int {
	v := l.roller.Between(low, high)
	l.logger.Debug("range draw",
		zap.Int("low", low),
		zap.Int("high", high),
		zap.Int("value", v),
	)
	return v
}
