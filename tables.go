package pocketmod

// Amiga period table: 16 finetune rows, 36 notes per row (three octaves,
// C-1..B-3). Lifted byte-for-byte from pocketmod.h / ProTracker, including
// the row-13 typo at column 17 (338 where 347 would be mathematically
// consistent with the rest of the table) — countless existing tunes were
// authored against the buggy table, so it stays.
var amigaPeriod = [16][36]int16{
	{856, 808, 762, 720, 678, 640, 604, 570, 538, 508, 480, 453,
		428, 404, 381, 360, 339, 320, 302, 285, 269, 254, 240, 226,
		214, 202, 190, 180, 170, 160, 151, 143, 135, 127, 120, 113},
	{850, 802, 757, 715, 674, 637, 601, 567, 535, 505, 477, 450,
		425, 401, 379, 357, 337, 318, 300, 284, 268, 253, 239, 225,
		213, 201, 189, 179, 169, 159, 150, 142, 134, 126, 119, 113},
	{844, 796, 752, 709, 670, 632, 597, 563, 532, 502, 474, 447,
		422, 398, 376, 355, 335, 316, 298, 282, 266, 251, 237, 224,
		211, 199, 188, 177, 167, 158, 149, 141, 133, 125, 118, 112},
	{838, 791, 746, 704, 665, 628, 592, 559, 528, 498, 470, 444,
		419, 395, 373, 352, 332, 314, 296, 280, 264, 249, 235, 222,
		209, 198, 187, 176, 166, 157, 148, 140, 132, 125, 118, 111},
	{832, 785, 741, 699, 660, 623, 588, 555, 524, 495, 467, 441,
		416, 392, 370, 350, 330, 312, 294, 278, 262, 247, 233, 220,
		208, 196, 185, 175, 165, 156, 147, 139, 131, 124, 117, 110},
	{826, 779, 736, 694, 655, 619, 584, 551, 520, 491, 463, 437,
		413, 390, 368, 347, 328, 309, 292, 276, 260, 245, 232, 219,
		206, 195, 184, 174, 164, 155, 146, 138, 130, 123, 116, 109},
	{820, 774, 730, 689, 651, 614, 580, 547, 516, 487, 460, 434,
		410, 387, 365, 345, 325, 307, 290, 274, 258, 244, 230, 217,
		205, 193, 183, 172, 163, 154, 145, 137, 129, 122, 115, 109},
	{814, 768, 725, 684, 646, 610, 575, 543, 513, 484, 457, 431,
		407, 384, 363, 342, 323, 305, 288, 272, 256, 242, 228, 216,
		204, 192, 181, 171, 161, 152, 144, 136, 128, 121, 114, 108},
	{907, 856, 808, 762, 720, 678, 640, 604, 570, 538, 504, 480,
		453, 428, 404, 381, 360, 339, 320, 302, 285, 269, 254, 240,
		226, 214, 202, 190, 180, 170, 160, 151, 143, 135, 127, 120},
	{900, 850, 802, 757, 715, 675, 636, 601, 567, 535, 505, 477,
		450, 425, 401, 379, 357, 337, 318, 300, 284, 268, 253, 238,
		225, 212, 200, 189, 179, 169, 159, 150, 142, 134, 126, 119},
	{894, 844, 796, 752, 709, 670, 632, 597, 563, 532, 502, 474,
		447, 422, 398, 376, 355, 335, 316, 298, 282, 266, 251, 237,
		223, 211, 199, 188, 177, 167, 158, 149, 141, 133, 125, 118},
	{887, 838, 791, 746, 704, 665, 628, 592, 559, 528, 498, 470,
		444, 419, 395, 373, 352, 332, 314, 296, 280, 264, 249, 235,
		222, 209, 198, 187, 176, 166, 157, 148, 140, 132, 125, 118},
	{881, 832, 785, 741, 699, 660, 623, 588, 555, 524, 494, 467,
		441, 416, 392, 370, 350, 330, 312, 294, 278, 262, 247, 233,
		220, 208, 196, 185, 175, 165, 156, 147, 139, 131, 123, 117},
	{875, 826, 779, 736, 694, 655, 619, 584, 551, 520, 491, 463,
		437, 413, 390, 368, 347, 338, 309, 292, 276, 260, 245, 232,
		219, 206, 195, 184, 174, 164, 155, 146, 138, 130, 123, 116},
	{868, 820, 774, 730, 689, 651, 614, 580, 547, 516, 487, 460,
		434, 410, 387, 365, 345, 325, 307, 290, 274, 258, 244, 230,
		217, 205, 193, 183, 172, 163, 154, 145, 137, 129, 122, 115},
	{862, 814, 768, 725, 684, 646, 610, 575, 543, 513, 484, 457,
		431, 407, 384, 363, 342, 323, 305, 288, 272, 256, 242, 228,
		216, 203, 192, 181, 171, 161, 152, 144, 136, 128, 121, 114},
}

// arpeggioRatio[k] is 2^(k/12), used to divide a period down by k semitones.
var arpeggioRatio = [16]float32{
	1.000000, 1.059463, 1.122462, 1.189207,
	1.259921, 1.334840, 1.414214, 1.498307,
	1.587401, 1.681793, 1.781797, 1.887749,
	2.000000, 2.118926, 2.244924, 2.378414,
}

// periodToNote maps a finetune-0 period to a note index in 0..35. Periods
// that don't appear in row 0 of amigaPeriod (e.g. a slid or mistuned period)
// fall back to note 0, matching the original's switch-with-default behavior.
func periodToNote(period int) int {
	row0 := &amigaPeriod[0]
	for i, p := range row0 {
		if int(p) == period {
			return i
		}
	}
	return 0
}

// finetunePeriod remaps a finetune-0 period to the equivalent period at the
// given finetune setting.
func finetunePeriod(period, finetune int) int {
	return int(amigaPeriod[finetune][periodToNote(period)])
}

// lfoSin is a table-based quarter-wave sine oscillator returning a value in
// roughly -255..255 for step in 0..63.
func lfoSin(step int) int {
	quarter := [16]byte{
		0x00, 0x18, 0x31, 0x4a, 0x61, 0x78, 0x8d, 0xa1,
		0xb4, 0xc5, 0xd4, 0xe0, 0xeb, 0xf4, 0xfa, 0xfd,
	}
	x := int(quarter[step&0x0f])
	if step&0x1f >= 0x10 {
		x = 0xff - x
	}
	if step >= 0x20 {
		x = -x
	}
	return x
}
