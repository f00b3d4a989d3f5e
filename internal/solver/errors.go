package solver

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UnreachableTargetError is returned when the open lots of a security cannot
// realize the requested taxable gain on their own.
type UnreachableTargetError struct {
	Security   string
	Target     decimal.Decimal
	Achievable decimal.Decimal // taxable gain of selling every positive lot
	Quantity   decimal.Decimal // shares in those lots
}

func (e *UnreachableTargetError) Error() string {
	return fmt.Sprintf("%s cannot realize a taxable gain of %s: selling all %s profitable shares realizes %s",
		e.Security, e.Target.StringFixed(2), e.Quantity, e.Achievable.StringFixed(2))
}
