package sales

import "time"

// SetClock reemplaza el reloj del caso de uso en tests.
func (uc *SaleUseCase) SetClock(now func() time.Time) { uc.now = now }
