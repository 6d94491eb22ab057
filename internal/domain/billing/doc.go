// Package billing provides domain models for the money-movement side of
// tour settlement: collecting from customers and paying suppliers.
//
// Key Aggregates:
//   - Receipt: A recorded collection from a customer, counted toward
//     revenue only once confirmed with an actual amount
//   - PaymentRequest: A supplier expense request with line items, counted
//     toward cost through its approval lifecycle unless rejected or deleted
//   - DisbursementOrder: A batch payout covering confirmed payment
//     requests; confirming it marks every covered request as paid
//
// The billing domain feeds the settlement recomputation chain: any state
// change here invalidates derived order and tour financial fields.
package billing
