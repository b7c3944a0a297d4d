package relocation

// Paired runs first and then second as one unit. When first fails nothing
// else runs. When second fails compensate is run to undo first, and the
// error from second is returned; if compensate also fails the result is a
// *CompensationError carrying both.
func Paired(first, second, compensate func() error) error {
	if err := first(); err != nil {
		return err
	}
	if err := second(); err != nil {
		if rollbackErr := compensate(); rollbackErr != nil {
			return &CompensationError{Err: err, RollbackErr: rollbackErr}
		}
		return err
	}
	return nil
}
