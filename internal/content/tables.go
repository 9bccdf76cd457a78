package content

import "github.com/user/hsk-life/internal/types"

// InitialStats is the state of a fresh player
var InitialStats = types.PlayerStats{
	Health:   100,
	Hunger:   100,
	Thirst:   100,
	Stamina:  100,
	Money:    200,
	Face:     50,
	HSKLevel: 1,
	IsSick:   false,
}

// InitialInventory returns the starting inventory
func InitialInventory() []types.InventoryItem {
	return []types.InventoryItem{}
}

func defaultZones() []*types.Zone {
	return []*types.Zone{
		{
			ID:           "residential",
			Name:         "Residential Compound (小区)",
			Description:  "Home, Clinic, and Neighbors. (HSK 1)",
			ImageSeed:    "residential",
			NPCs:         []string{"grandma_li", "guard_wang", "doctor_zhang"},
			MinHSK:       1,
			AmbientSound: "birds",
		},
		{
			ID:           "park",
			Name:         "Morning Park (公园)",
			Description:  "Exercise and Practice. (HSK 1)",
			ImageSeed:    "park",
			NPCs:         []string{"auntie_dance", "kid_zhu", "ai_tutor"},
			MinHSK:       1,
			AmbientSound: "nature",
		},
		{
			ID:           "alley",
			Name:         "Old Alley (胡同)",
			Description:  "Police Station and Culture. (HSK 2-3)",
			ImageSeed:    "alley",
			NPCs:         []string{"uncle_chen", "teacher_liu", "police_li"},
			MinHSK:       2,
			AmbientSound: "street",
		},
		{
			ID:           "market",
			Name:         "Street Market (菜市场)",
			Description:  "Shops, Clothes, and Food. (HSK 3-4)",
			ImageSeed:    "market",
			NPCs:         []string{"shopkeeper_zhang", "butcher_zhao", "sister_hong"},
			MinHSK:       3,
			AmbientSound: "crowd",
		},
		{
			ID:           "cbd",
			Name:         "Central Business District (CBD)",
			Description:  "Offices and Restaurants. (HSK 5-6)",
			ImageSeed:    "skyscraper",
			NPCs:         []string{"ceo_ma", "hr_manager", "waiter_wang"},
			MinHSK:       5,
			AmbientSound: "traffic",
		},
	}
}

func s(chinese, pinyin, english string) types.Suggestion {
	return types.Suggestion{Chinese: chinese, Pinyin: pinyin, English: english}
}

func defaultNPCs() []*types.NPC {
	return []*types.NPC{
		{
			ID: "grandma_li", Name: "Grandma Li (李奶奶)", Role: "Neighbor",
			Personality: "Kind, very patient. Loves to feed people.", AvatarSeed: "grandma",
			Intro: "早！吃了吗？(Morning! Eaten?)", ZoneID: "residential", HSKLevel: 1,
			ShopInventory: []string{"baozi", "water"},
			InitialSuggestions: []types.Suggestion{
				s("吃了，谢谢。", "Chī le, xièxie.", "I have eaten, thanks."),
				s("没吃，我饿了。", "Méi chī, wǒ è le.", "Not yet, I am hungry."),
				s("李奶奶好！", "Lǐ nǎinai hǎo!", "Hello Grandma Li!"),
			},
		},
		{
			ID: "guard_wang", Name: "Guard Wang (王保安)", Role: "Security",
			Personality: `Protective. Likes "Yes/No" answers.`, AvatarSeed: "guard",
			Intro: "你好。带伞了吗？(Hello. Brought umbrella?)", ZoneID: "residential", HSKLevel: 1,
			InitialSuggestions: []types.Suggestion{
				s("带了。", "Dài le.", "I brought it."),
				s("没有带。", "Méiyǒu dài.", "I did not bring it."),
				s("今天不下雨。", "Jīntiān bú xiàyǔ.", "It won't rain today."),
			},
		},
		{
			ID: "doctor_zhang", Name: "Dr. Zhang (张医生)", Role: RoleDoctor,
			Personality: "Professional, caring. Helps when you are sick.", AvatarSeed: "doctor",
			Intro: "哪里不舒服？(Where does it hurt?)", ZoneID: "residential", HSKLevel: 1,
			InitialSuggestions: []types.Suggestion{
				s("我不舒服。", "Wǒ bù shūfu.", "I don't feel well."),
				s("我生病了。", "Wǒ shēngbìng le.", "I am sick."),
				s("我有药吗？", "Wǒ yǒu yào ma?", "Do I have medicine?"),
			},
		},
		{
			ID: "auntie_dance", Name: "Auntie Zhang (张阿姨)", Role: "Dancer",
			Personality: "Energetic. Loves music.", AvatarSeed: "dancer",
			Intro: "来跳舞吧！(Come dance!)", ZoneID: "park", HSKLevel: 1,
			IsVendor: true, ShopInventory: []string{"water", "tea"},
			InitialSuggestions: []types.Suggestion{
				s("好，我喜欢跳舞！", "Hǎo, wǒ xǐhuan tiàowǔ!", "Okay, I like dancing!"),
				s("我想要水。", "Wǒ xiǎng yào shuǐ.", "I want water."),
				s("你是谁？", "Nǐ shì shéi?", "Who are you?"),
			},
		},
		{
			ID: "kid_zhu", Name: "Little Zhu (小猪)", Role: "Kid",
			Personality: "Playful.", AvatarSeed: "kid",
			Intro: "我要玩球！(I want to play ball!)", ZoneID: "park", HSKLevel: 1,
			InitialSuggestions: []types.Suggestion{
				s("我也想玩。", "Wǒ yě xiǎng wán.", "I want to play too."),
				s("球在哪里？", "Qiú zài nǎlǐ?", "Where is the ball?"),
				s("再见。", "Zàijiàn.", "Goodbye."),
			},
		},
		{
			ID: "ai_tutor", Name: "AI Tutor (练习助手)", Role: "Practice Bot",
			Personality: "Encouraging.", AvatarSeed: "robot",
			Intro: "欢迎练习！(Welcome practice!)", ZoneID: "park", HSKLevel: 1,
			InitialSuggestions: []types.Suggestion{
				s("我想练习口语。", "Wǒ xiǎng liànxí kǒuyǔ.", "Practice speaking."),
				s("你好！", "Nǐ hǎo!", "Hello!"),
				s("请帮我。", "Qǐng bāng wǒ.", "Please help me."),
			},
		},
		{
			ID: "uncle_chen", Name: "Uncle Chen (陈叔叔)", Role: "Taxi Driver",
			Personality: "Chatty.", AvatarSeed: "driver",
			Intro: "去哪里？(Where to?)", ZoneID: "alley", HSKLevel: 2,
			InitialSuggestions: []types.Suggestion{
				s("我去学校。", "Wǒ qù xuéxiào.", "Going to school."),
				s("一直走。", "Yìzhí zǒu.", "Go straight."),
				s("多少钱？", "Duōshǎo qián?", "How much?"),
			},
		},
		{
			ID: "teacher_liu", Name: "Teacher Liu (刘老师)", Role: "Tutor",
			Personality: "Strict.", AvatarSeed: "teacher",
			Intro: "上课了。(Class starts.)", ZoneID: "alley", HSKLevel: 2,
			InitialSuggestions: []types.Suggestion{
				s("老师好！", "Lǎoshī hǎo!", "Hello teacher!"),
				s("我不明白。", "Wǒ bù míngbai.", "I don't understand."),
				s("请再说一次。", "Qǐng zài shuō yí cì.", "Please say again."),
			},
		},
		{
			ID: "police_li", Name: "Officer Li (李警官)", Role: RolePolice,
			Personality: "Serious, helpful.", AvatarSeed: "police",
			Intro: "发生什么事了？(What happened?)", ZoneID: "alley", HSKLevel: 2,
			InitialSuggestions: []types.Suggestion{
				s("我的钱包丢了。", "Wǒ de qiánbāo diū le.", "Lost my wallet."),
				s("我想问路。", "Wǒ xiǎng wèn lù.", "Ask for directions."),
				s("这里安全吗？", "Zhèlǐ ānquán ma?", "Is it safe here?"),
			},
		},
		{
			ID: "shopkeeper_zhang", Name: "Boss Zhang (张老板)", Role: "Vendor",
			Personality: "Loud.", AvatarSeed: "vendor",
			Intro: "包子！(Baozi!)", ZoneID: "market", HSKLevel: 3,
			IsVendor: true, ShopInventory: []string{"baozi", "umbrella", "medicine"},
			InitialSuggestions: []types.Suggestion{
				s("我要一个包子。", "Wǒ yào yí gè bāozi.", "One baozi please."),
				s("太贵了！", "Tài guì le!", "Too expensive!"),
				s("买雨伞。", "Mǎi yǔsǎn.", "Buy umbrella."),
			},
		},
		{
			ID: "butcher_zhao", Name: "Butcher Zhao (赵屠夫)", Role: "Butcher",
			Personality: "Direct.", AvatarSeed: "butcher",
			Intro: "买肉吗？(Buy meat?)", ZoneID: "market", HSKLevel: 3,
			InitialSuggestions: []types.Suggestion{
				s("牛肉多少钱？", "Niúròu duōshǎo qián?", "How much for beef?"),
				s("来一斤。", "Lái yì jīn.", "Give me 500g."),
				s("不买。", "Bù mǎi.", "Not buying."),
			},
		},
		{
			ID: "sister_hong", Name: "Sister Hong (红姐)", Role: "Clothing Vendor",
			Personality: "Fashionable, persuasive.", AvatarSeed: "fashion",
			Intro: "新衣服，来看看！(New clothes, come look!)", ZoneID: "market", HSKLevel: 3,
			IsVendor: true, ShopInventory: []string{"jacket", "raincoat"},
			InitialSuggestions: []types.Suggestion{
				s("这件衣服很好看。", "Zhè jiàn yīfu hěn hǎokàn.", "This looks good."),
				s("我要买外套。", "Wǒ yào mǎi wàitào.", "I want to buy a jacket."),
				s("可以试穿吗？", "Kěyǐ shìchuān ma?", "Can I try it on?"),
			},
		},
		{
			ID: "ceo_ma", Name: "CEO Ma (马总)", Role: "Tech CEO",
			Personality: "Formal.", AvatarSeed: "suit",
			Intro: "你好。(Hello.)", ZoneID: "cbd", HSKLevel: 5,
			InitialSuggestions: []types.Suggestion{
				s("马总好。", "Mǎ zǒng hǎo.", "Hello CEO Ma."),
				s("我想申请工作。", "Wǒ xiǎng shēnqǐng gōngzuò.", "Apply for job."),
				s("谢谢您的时间。", "Xièxie nín de shíjiān.", "Thank you for your time."),
			},
		},
		{
			ID: "hr_manager", Name: "HR Manager (人事经理)", Role: "HR",
			Personality: "Professional.", AvatarSeed: "hr",
			Intro: "简历？(Resume?)", ZoneID: "cbd", HSKLevel: 5,
			InitialSuggestions: []types.Suggestion{
				s("带来了。", "Dài lái le.", "Brought it."),
				s("请问有面试吗？", "Qǐngwèn yǒu miànshì ma?", "Any interview?"),
				s("我有经验。", "Wǒ yǒu jīngyàn.", "I have experience."),
			},
		},
		{
			ID: "waiter_wang", Name: "Waiter Wang (王服务员)", Role: "Waiter",
			Personality: "Polite, fast.", AvatarSeed: "waiter",
			Intro: "几位？想吃点什么？(How many? What to eat?)", ZoneID: "cbd", HSKLevel: 4,
			IsVendor: true, ShopInventory: []string{"dumplings", "noodles", "tea"},
			InitialSuggestions: []types.Suggestion{
				s("一位。", "Yí wèi.", "Just one."),
				s("我要吃面条。", "Wǒ yào chī miàntiáo.", "I want noodles."),
				s("买单。", "Mǎidān.", "Bill please."),
			},
		},
	}
}

func defaultJobs() []*types.Job {
	return []*types.Job{
		{ID: "factory", Title: "Factory Worker", Description: "Repeat simple words.", MinHSK: 1, Salary: 15, Type: types.JobRepetition},
		{ID: "waiter", Title: "Waiter", Description: "Take orders.", MinHSK: 2, Salary: 30, Type: types.JobRepetition},
		{ID: "broadcaster", Title: "News Broadcaster", Description: "Read news.", MinHSK: 4, Salary: 60, Type: types.JobRepetition},
		{ID: "translator", Title: "Translator", Description: "Business translation.", MinHSK: 5, Salary: 120, Type: types.JobTranslation},
	}
}

func defaultItems() []*types.ShopItem {
	return []*types.ShopItem{
		{ID: "baozi", Name: "Baozi (包子)", Price: 10, Type: types.ItemFood, EffectValue: 40},
		{ID: "water", Name: "Water (水)", Price: 5, Type: types.ItemDrink, EffectValue: 40},
		{ID: "tea", Name: "Tea (茶)", Price: 15, Type: types.ItemDrink, EffectValue: 20},
		{ID: "umbrella", Name: "Umbrella (雨伞)", Price: 50, Type: types.ItemTool, EffectValue: 0},
		{ID: "medicine", Name: "Medicine (药)", Price: 100, Type: types.ItemMedicine, EffectValue: 100},
		{ID: "jacket", Name: "Jacket (外套)", Price: 150, Type: types.ItemClothing, EffectValue: 5},
		{ID: "raincoat", Name: "Raincoat (雨衣)", Price: 80, Type: types.ItemClothing, EffectValue: 0},
		{ID: "dumplings", Name: "Dumplings (饺子)", Price: 30, Type: types.ItemFood, EffectValue: 60},
		{ID: "noodles", Name: "Noodles (面条)", Price: 25, Type: types.ItemFood, EffectValue: 50},
	}
}

func defaultFallingWords() []types.FallingWord {
	return []types.FallingWord{
		{Text: "你好", Pinyin: "nǐ hǎo", HSK: 1},
		{Text: "谢谢", Pinyin: "xiè xie", HSK: 1},
		{Text: "喝水", Pinyin: "hē shuǐ", HSK: 1},
		{Text: "吃饭", Pinyin: "chī fàn", HSK: 1},
		{Text: "再见", Pinyin: "zài jiàn", HSK: 1},
		{Text: "明天", Pinyin: "míng tiān", HSK: 2},
		{Text: "高兴", Pinyin: "gāo xìng", HSK: 2},
		{Text: "因为", Pinyin: "yīn wèi", HSK: 2},
		{Text: "但是", Pinyin: "dàn shì", HSK: 3},
		{Text: "其实", Pinyin: "qí shí", HSK: 3},
	}
}

// Roles that change which dialogue actions make sense
const (
	RoleDoctor = "Doctor"
	RolePolice = "Police"
)

// Items the rain check looks for
var RainGear = []string{"umbrella", "raincoat"}
