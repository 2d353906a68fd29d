package transaction

import "errors"

var (
	// ErrTransactionNotFound возвращается, когда транзакция не найдена
	ErrTransactionNotFound = errors.New("transaction.repository: transaction not found")

	// ErrDuplicateReference возвращается при коллизии внешнего номера транзакции
	ErrDuplicateReference = errors.New("transaction.repository: duplicate reference")

	// ErrStatusConflict возвращается, когда статус транзакции изменился
	// между чтением и guarded-обновлением
	ErrStatusConflict = errors.New("transaction.repository: status changed concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("transaction.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("transaction.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("transaction.repository: failed to scan row")
)
