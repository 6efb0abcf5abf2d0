package catalog

import "errors"

var (
	// ErrPackageNotFound возвращается, когда пакет не найден
	ErrPackageNotFound = errors.New("catalog.repository: package not found")

	// ErrAddOnNotFound возвращается, когда хотя бы одно из запрошенных дополнений не найдено
	ErrAddOnNotFound = errors.New("catalog.repository: add-on not found")

	// ErrMerchandiseNotFound возвращается, когда хотя бы один из запрошенных товаров не найден
	ErrMerchandiseNotFound = errors.New("catalog.repository: merchandise item not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
