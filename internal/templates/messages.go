package templates

var welcome = Bilingual{
	Myanmar: `ဆေးဆိုင်မှ ကြိုဆိုပါတယ်! 🏪

ကျေးဇူးပြု၍ အောက်ပါ option များမှ ရွေးချယ်ပါ:

1️⃣ - ဆေးဝါးများ ရှာဖွေရန်
2️⃣ - အမှာစာတင်ရန်
3️⃣ - ဆေးညွှန်းပို့ရန်
4️⃣ - အကူအညီလိုချင်ပါက

ဖွင့်ချိန်: နံနက် ၉နာရီ - ည ၉နာရီ`,
	English: `Welcome to ရွှေအိုး Pharmacy! 🏪

Please choose from the following options:

1️⃣ - Search Medicines
2️⃣ - Place Order
3️⃣ - Upload Prescription
4️⃣ - Need Help

Open Hours: 9AM - 9PM Daily`,
}

var welcomeBase = Bilingual{
	Myanmar: "ဆေးဆိုင်မှ ကြိုဆိုပါတယ်! 🏪\nဖွင့်ချိန်: နံနက် ၉နာရီ - ည ၉နာရီ",
	English: "Welcome to ရွှေအိုး Pharmacy! 🏪\nOpen Hours: 9AM - 9PM Daily",
}

var orderConfirmation = Bilingual{
	Myanmar: `အမှာစာ လက်ခံပြီးပါပြီ! ✅

အမှာစာနံပါတ်: {orderId}
စုစုပေါင်းငွေ: {totalAmount} ကျပ်
ပို့ဆောင်လိပ်စာ: {deliveryAddress}

ကျွန်ုပ်တို့က မကြာမီ ဆက်သွယ်ပါမယ်။`,
	English: `Order confirmed! ✅

Order ID: {orderId}
Total Amount: {totalAmount} MMK
Delivery Address: {deliveryAddress}

We'll contact you soon.`,
}

const (
	OrderConfirmed = "confirmed"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

var orderStatus = Keyed{
	Fallback: OrderConfirmed,
	Entries: map[string]Bilingual{
		OrderConfirmed: {
			Myanmar: "အမှာစာကို အတည်ပြုပြီးပါပြီ! ✅\nအမှာစာနံပါတ်: {orderId}\nကျွန်ုပ်တို့က ပြင်ဆင်နေပါပြီ။",
			English: "Order confirmed! ✅\nOrder ID: {orderId}\nWe're preparing your order.",
		},
		OrderPreparing: {
			Myanmar: "အမှာစာကို ပြင်ဆင်နေပါပြီ! 🔄\nအမှာစာနံပါတ်: {orderId}",
			English: "Order is being prepared! 🔄\nOrder ID: {orderId}",
		},
		OrderReady: {
			Myanmar: "အမှာစာ ပြင်ဆင်ပြီးပါပြီ! 📦\nအမှာစာနံပါတ်: {orderId}\nပို့ဆောင်ရန် အသင့်ပါ။",
			English: "Order is ready! 📦\nOrder ID: {orderId}\nReady for delivery.",
		},
		OrderDelivered: {
			Myanmar: "အမှာစာ ပို့ဆောင်ပြီးပါပြီ! 🚚✅\nအမှာစာနံပါတ်: {orderId}\nကျေးဇူးတင်ပါတယ်!",
			English: "Order delivered successfully! 🚚✅\nOrder ID: {orderId}\nThank you!",
		},
		OrderCancelled: {
			Myanmar: "အမှာစာကို ပယ်ဖျက်လိုက်ပါပြီ။ ❌\nအမှာစာနံပါတ်: {orderId}",
			English: "Order has been cancelled. ❌\nOrder ID: {orderId}",
		},
	},
}

var prescriptionReceived = Bilingual{
	Myanmar: `ဆေးညွှန်း လက်ခံပြီးပါပြီ! 📋

ကျွန်ုပ်တို့ဆေးဝိုင်းမှ စစ်ဆေးပြီး မကြာမီ ပြန်လည်ဆက်သွယ်ပါမယ်။

ကျေးဇူးတင်ပါတယ်!`,
	English: `Prescription received! 📋

Our pharmacist will review it and contact you soon.

Thank you!`,
}

const (
	PrescriptionReviewed  = "reviewed"
	PrescriptionRejected  = "rejected"
	PrescriptionFulfilled = "fulfilled"
)

var prescriptionStatus = Keyed{
	Fallback: PrescriptionReviewed,
	Entries: map[string]Bilingual{
		PrescriptionReviewed: {
			Myanmar: "ဆေးညွှန်း စစ်ဆေးပြီးပါပြီ! ✅\nလိုအပ်သော ဆေးများ အရန်ရှိပါတယ်။ အမှာစာတင်နိုင်ပါတယ်။",
			English: "Prescription reviewed! ✅\nRequired medicines are available. You can place an order.",
		},
		PrescriptionRejected: {
			Myanmar: "ဆေးညွှန်း ပြန်လည်တင်ပေးရန် လိုအပ်ပါတယ်။ 📋❌\nကျေးဇူးပြု၍ ရှင်းလင်းသော ဓာတ်ပုံ ပြန်ပို့ပေးပါ။",
			English: "Prescription needs resubmission. 📋❌\nPlease send a clearer image.",
		},
		PrescriptionFulfilled: {
			Myanmar: "ဆေးညွှန်း အတိုင်း ဆေးများ ပြင်ဆင်ပြီးပါပြီ! 💊✅",
			English: "Medicines prepared according to prescription! 💊✅",
		},
	},
}

var help = Bilingual{
	Myanmar: `ကျွန်ုပ်တို့ကို ဆက်သွယ်နည်းများ:

📞 ဖုန်း: 09-XXX-XXX-XXX
📧 အီးမေးလ်: info@shweoo-pharmacy.com
🕘 ဖွင့်ချိန်: နံနက် ၉နာရီ - ည ၉နာရီ
📍 လိပ်စာ: ရန်ကုန်မြို့

မေးခွန်းများ ရှိပါက လွတ်လပ်စွာ မေးမြန်းနိုင်ပါတယ်!`,
	English: `Contact us:

📞 Phone: 09-XXX-XXX-XXX
📧 Email: info@shweoo-pharmacy.com
🕘 Hours: 9AM - 9PM Daily
📍 Address: Yangon

Feel free to ask any questions!`,
}
