package chance

// percentScale is the resolution of Percent checks. Probabilities finer than
// one part in a million round toward never.
const percentScale = 1_000_000

// Eval evaluates a Roll using the given Source and returns a Result.
//
// Precondition: roll must come from ParseRoll (Count >= 1, Sides >= 2);
// src must be non-nil.
// Postcondition: len(result.Dice) == roll.Count and
// result.Total() == sum(result.Dice) + result.Modifier.
func Eval(roll Roll, src Source) Result {
	rolled := make([]int, roll.Count)
	for i := range rolled {
		rolled[i] = src.Intn(roll.Sides) + 1
	}
	return Result{
		Expression: roll.Raw,
		Dice:       rolled,
		Modifier:   roll.Modifier,
	}
}

// EvalExpr parses expr and evaluates it using src in a single call.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a Result or a parse error.
func EvalExpr(expr string, src Source) (Result, error) {
	r, err := ParseRoll(expr)
	if err != nil {
		return Result{}, err
	}
	return Eval(r, src), nil
}

// Roller evaluates rolls and derived checks against a single Source.
type Roller struct {
	src Source
}

// NewRoller returns a Roller backed by src.
//
// Precondition: src must be non-nil.
func NewRoller(src Source) *Roller {
	return &Roller{src: src}
}

// Roll evaluates a parsed Roll.
//
// Precondition: roll must come from ParseRoll.
func (r *Roller) Roll(roll Roll) Result {
	return Eval(roll, r.src)
}

// RollExpr parses expr and evaluates it.
//
// Postcondition: Returns a Result or a parse error.
func (r *Roller) RollExpr(expr string) (Result, error) {
	return EvalExpr(expr, r.src)
}

// Percent returns true with probability p.
//
// Precondition: p may be any float; values <= 0 never pass, values >= 1
// always pass.
func (r *Roller) Percent(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.src.Intn(percentScale) < int(p*percentScale)
}

// Between returns a uniformly distributed int in [low, high], inclusive on
// both ends.
//
// Precondition: low <= high. Panics with "chance: Between called with
// low > high" otherwise.
func (r *Roller) Between(low, high int) int {
	if low > high {
		panic("chance: Between called with low > high")
	}
	return low + r.src.Intn(high-low+1)
}
