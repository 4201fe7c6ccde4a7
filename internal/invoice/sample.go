package invoice

// Sample is a small invoice used for demos and tests.
const Sample = `Invoice from Vintage Clothing Store

Date: 12/15/2024
Vendor: Vintage Threads LLC

Items:
Nike Air Max Sneakers Size 10 - $45.00
Levi's Denim Jacket Medium - $35.00
Vintage Band T-Shirt Large - $15.00
Adidas Track Pants Size M - $25.00

Subtotal: $120.00
Tax: $10.80
Total: $130.80`
