package constants

// Classification is the document label produced by the classifier.
type Classification string

// Stable values (store these exact strings in DB and API responses).
const (
	ClassificationFactura     Classification = "FACTURA"
	ClassificationInformacion Classification = "INFORMACIÓN"
)
