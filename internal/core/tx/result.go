package tx

import "fmt"

// Result classifies the outcome of applying a settlement operation. Codes
// are grouped by category; every failure is terminal for the attempt and is
// surfaced verbatim to the caller, never retried internally.
type Result int

const (
	ResultSuccess Result = 0

	// Configuration errors (100-199)
	ResultInvalidSellerFeeBasisPoints Result = 100
	ResultAccountNotInitialized       Result = 101
	ResultAccountAlreadyInitialized   Result = 102

	// Arithmetic errors (200-299)
	ResultNumericOverflow Result = 200

	// Funding errors (300-399)
	ResultNotEnoughFunds Result = 300

	// Matching errors (400-499): the derived record address and the ledger
	// disagree about what is open.
	ResultInvalidBuyingOrSellingOrder  Result = 400
	ResultInvalidBuyingOrderPrice      Result = 401
	ResultInvalidSellerTradeState      Result = 402
	ResultInvalidBuyerTradeState       Result = 403
	ResultBothPartiesNeedToAgreeToSale Result = 404

	// Proof errors (500-599)
	ResultMetadataHashMismatch Result = 500
	ResultPublicKeyMismatch    Result = 501
	ResultInvalidProof         Result = 502

	// Authorization errors (600-699)
	ResultRequireAuctionHouseSignOff           Result = 600
	ResultPayerNotProvided                     Result = 601
	ResultSellerTokenAccountCannotHaveDelegate Result = 602
	ResultBumpSeedNotInHashMap                 Result = 603
	ResultMissingRequiredSigner                Result = 604

	// Internal errors (700-799): plumbing failures, never a caller mistake.
	ResultInternal Result = 700
)

var resultNames = map[Result]string{
	ResultSuccess:                              "Success",
	ResultInvalidSellerFeeBasisPoints:          "InvalidSellerFeeBasisPoints",
	ResultAccountNotInitialized:                "AccountNotInitialized",
	ResultAccountAlreadyInitialized:            "AccountAlreadyInitialized",
	ResultNumericOverflow:                      "NumericOverflow",
	ResultNotEnoughFunds:                       "NotEnoughFunds",
	ResultInvalidBuyingOrSellingOrder:          "InvalidBuyingOrSellingOrder",
	ResultInvalidBuyingOrderPrice:              "InvalidBuyingOrderPrice",
	ResultInvalidSellerTradeState:              "InvalidSellerTradeState",
	ResultInvalidBuyerTradeState:               "InvalidBuyerTradeState",
	ResultBothPartiesNeedToAgreeToSale:         "BothPartiesNeedToAgreeToSale",
	ResultMetadataHashMismatch:                 "MetadataHashMismatch",
	ResultPublicKeyMismatch:                    "PublicKeyMismatch",
	ResultInvalidProof:                         "InvalidProof",
	ResultRequireAuctionHouseSignOff:           "RequireAuctionHouseSignOff",
	ResultPayerNotProvided:                     "PayerNotProvided",
	ResultSellerTokenAccountCannotHaveDelegate: "SellerTokenAccountCannotHaveDelegate",
	ResultBumpSeedNotInHashMap:                 "BumpSeedNotInHashMap",
	ResultMissingRequiredSigner:                "MissingRequiredSigner",
	ResultInternal:                             "Internal",
}

var resultMessages = map[Result]string{
	ResultSuccess:                              "operation applied",
	ResultInvalidSellerFeeBasisPoints:          "fee basis points exceed 10000",
	ResultAccountNotInitialized:                "expected record does not exist",
	ResultAccountAlreadyInitialized:            "record already exists at derived address",
	ResultNumericOverflow:                      "arithmetic overflow or underflow",
	ResultNotEnoughFunds:                       "payer or escrow balance insufficient",
	ResultInvalidBuyingOrSellingOrder:          "supplied order address does not match derivation",
	ResultInvalidBuyingOrderPrice:              "ask price does not match bid price",
	ResultInvalidSellerTradeState:              "no open seller order at derived address",
	ResultInvalidBuyerTradeState:               "no open buyer order at derived address",
	ResultBothPartiesNeedToAgreeToSale:         "seller order missing for agreed price",
	ResultMetadataHashMismatch:                 "recomputed metadata hash does not match supplied data hash",
	ResultPublicKeyMismatch:                    "supplied account does not match metadata",
	ResultInvalidProof:                         "ownership proof rejected by tree program",
	ResultRequireAuctionHouseSignOff:           "marketplace authority must co-sign this sale",
	ResultPayerNotProvided:                     "operation requires a payer",
	ResultSellerTokenAccountCannotHaveDelegate: "asset is delegated to a third party",
	ResultBumpSeedNotInHashMap:                 "no valid bump seed for derivation",
	ResultMissingRequiredSigner:                "required signer missing",
	ResultInternal:                             "internal error",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Message returns a human-readable description of the result.
func (r Result) Message() string {
	if msg, ok := resultMessages[r]; ok {
		return msg
	}
	return "unknown result"
}

func (r Result) IsSuccess() bool {
	return r == ResultSuccess
}
