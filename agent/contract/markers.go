package contract

// Internal markers prepended by the capability tools. They must never reach a user.
const (
	MarkerProductRetrieved  = "[PRODUCT INFORMATION RETRIEVED]"
	LabelProductInformation = "Product Information:"
	MarkerOutletExecuted    = "[OUTLET DATABASE QUERY EXECUTED]"
	LabelOutletQueryResult  = "Outlet Query Result:"
	LabelCalculationResult  = "Calculation result:"
)

// ProductNotFound is returned verbatim when the knowledge base has no answer.
const ProductNotFound = "I am sorry, but I cannot find this product in the knowledge base."

// InternalMarkers lists every marker in removal order.
var InternalMarkers = []string{
	MarkerProductRetrieved,
	LabelProductInformation,
	MarkerOutletExecuted,
	LabelOutletQueryResult,
	LabelCalculationResult,
}

// CalculatorRefusal is the fixed part of the calculator's refusal sentence.
const CalculatorRefusal = "is not a valid arithmetic expression"
