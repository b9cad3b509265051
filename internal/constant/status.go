package constant

// Order lifecycle.
const (
	OrderPending         = "pending"
	OrderPaid            = "paid"
	OrderFailed          = "failed"
	OrderConfirmed       = "confirmed"
	OrderProcessing      = "processing"
	OrderShipped         = "shipped"
	OrderDelivered       = "delivered"
	OrderReturnRequested = "return_requested"
	OrderReturnApproved  = "return_approved"
	OrderReturnRejected  = "return_rejected"
	OrderReturned        = "returned"
	OrderRefunded        = "refunded"
	OrderCancelled       = "cancelled"
)

// Commission rule levels, in resolution precedence order (highest first).
const (
	LevelProduct  = "product"
	LevelCategory = "category"
	LevelTier     = "tier"
	LevelMerchant = "merchant"
	LevelGlobal   = "global"
)

// LevelPrecedence is the fixed match order for rule resolution.
var LevelPrecedence = []string{LevelProduct, LevelCategory, LevelTier, LevelMerchant, LevelGlobal}

// Commission rule types.
const (
	RuleTypePercentage = "percentage"
	RuleTypeFixed      = "fixed"
	RuleTypeTiered     = "tiered"
	RuleTypeHybrid     = "hybrid"
)

// Commission sources recorded on the frozen order-item snapshot.
const (
	CommissionSourceOwnStore      = "own_store"
	CommissionSourceGlobalDefault = "global_default"
)

// Card classes for gateway fee buckets.
const (
	CardLocalVisa         = "local_visa"
	CardRegionalVisa      = "regional_visa"
	CardInternationalVisa = "international_visa"
	CardAmex              = "amex"
	CardMada              = "mada"
	CardBNPL              = "bnpl"
	CardCOD               = "cod"
	CardDefault           = "default"
)

// Settlement lifecycle.
const (
	SettlementPending    = "pending"
	SettlementProcessing = "processing"
	SettlementPaid       = "paid"
	SettlementFailed     = "failed"
)

// Refund status (customer-facing state machine).
const (
	RefundPending    = "pending"
	RefundApproved   = "approved"
	RefundProcessing = "processing"
	RefundCompleted  = "completed"
	RefundRejected   = "rejected"
)

// Recovery methods (merchant-facing state machine lives on the same record
// but transitions independently of the refund status above).
const (
	RecoveryNotApplicable   = "not_applicable"
	RecoveryDeductNext      = "deduct_next_settlement"
	RecoveryDirectRepayment = "direct_repayment"
)

// Payment method buckets arriving from checkout.
const (
	PayMethodCard = "card"
	PayMethodBNPL = "bnpl"
	PayMethodCOD  = "cod"
)
