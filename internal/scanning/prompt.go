package scanning

// extractionPrompt is the shared prompt used by all vision backends. It asks
// for the full itemized receipt shape the normalization pipeline consumes.
const extractionPrompt = `You are analyzing a photographed retail receipt. Read every printed character carefully and extract the complete itemized contents.

QUANTITY RULES for each item line:
- A number at the start of the line is a count: "2 FS LAYS CHIPS" means quantity 2.
- "N @ $P" means quantity N at unit price P: "5 @ $1.99" means quantity 5, unit_price 1.99.
- "N x" or "Nx" is a multiplier: "3 x ITEM" means quantity 3.
- Weight-based lines like "0.58 lb @ $1.99/lb" are a single item whose line_total is weight times price per unit.
- A number glued to a unit of measure is a package size, NOT a quantity: "400G", "3L", "24PK", "2CT", "16.9OZ" all mean quantity 1.
- The same item printed on two separate lines is two separate items, not quantity 2.
- When nothing indicates multiple items, quantity is 1.

CATEGORIES: every charge is one of "product", "tax", "fee", or "deposit". Include tax lines, bag fees, and bottle deposits as items. A $0.00 tax line is still an item.

Also extract the store name, full address, phone, transaction/receipt id, date (as YYYY-MM-DD), time, cashier, subtotal, total, payment method, and card last 4 digits when shown.

Return ONLY valid JSON in this exact shape:
{
  "receipt_id": "282876",
  "store_name": "FOODLAND MARKET",
  "address": "2234 Massachusetts Avenue, Cambridge, MA",
  "phone": "(617) 349-0009",
  "date": "2025-12-15",
  "time": "19:14:58",
  "cashier": null,
  "items": [
    {"name": "FS HR GOBI PARATHA 400G", "quantity": 1, "unit_price": 5.99, "line_total": 5.99, "category": "product"},
    {"name": "BAG FEE", "quantity": 4, "unit_price": 0.10, "line_total": 0.40, "category": "fee"},
    {"name": "TAX", "quantity": 1, "unit_price": 0.56, "line_total": 0.56, "category": "tax"}
  ],
  "subtotal": 6.39,
  "total": 6.95,
  "payment_method": "VISA",
  "card_last_4": "1234"
}

Important:
- Quantities are integers, prices are numbers (not strings)
- Use null for any field you cannot find
- The sum of all line_total values should match the printed total
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
